package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// UserLookup loads the user a token was issued to.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Authenticate resolves the request's actor from a Bearer token. Requests
// without an Authorization header continue as the anonymous actor; a header
// that does not carry a valid token is rejected with 401.
//
// The user is reloaded on every request so role changes and deletions take
// effect immediately rather than when the token expires.
func Authenticate(tokens TokenParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			SetActor(c, policy.Anonymous())
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				abortUnauthorized(c, "user not found")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		SetActor(c, policy.ActorFor(user))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Finer-grained checks happen in the
// services through the policy package.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated {
			abortUnauthorized(c, "authentication credentials were not provided")
			return
		}
		c.Next()
	}
}

// SetActor stores the request's actor in the gin context.
func SetActor(c *gin.Context, actor policy.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the actor set by Authenticate, or the anonymous actor.
func ActorFrom(c *gin.Context) policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(policy.Actor); ok {
			return actor
		}
	}
	return policy.Anonymous()
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
