package handler

import (
	"log/slog"
	"net/http"

	"reviewhub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups the route sets mounted under /api/v1.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

// RouterDeps are the cross-cutting pieces of the middleware chain.
type RouterDeps struct {
	Logger      *slog.Logger
	Tokens      middleware.TokenParser
	Users       middleware.UserLookup
	AuthLimiter *middleware.RateLimiter
	// Health reports whether the backing stores are reachable.
	Health func(c *gin.Context) error
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(deps RouterDeps, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(c); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", middleware.Authenticate(deps.Tokens, deps.Users))
	{
		var authMW []gin.HandlerFunc
		if deps.AuthLimiter != nil {
			authMW = append(authMW, deps.AuthLimiter.Middleware())
		}
		h.Auth.RegisterRoutes(api, authMW...)
		h.User.RegisterRoutes(api)
		h.Category.RegisterRoutes(api)
		h.Genre.RegisterRoutes(api)
		h.Title.RegisterRoutes(api)
		h.Review.RegisterRoutes(api)
		h.Comment.RegisterRoutes(api)
	}

	return r
}
