package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	anonymous = policy.Anonymous()
	admin     = policy.ActorFor(&models.User{ID: 1, Role: models.RoleAdmin})
	reader    = policy.ActorFor(&models.User{ID: 3, Role: models.RoleUser})
)

// setupRouter mounts routes under /api/v1 behind a stub that plays the
// authentication middleware for actor.
func setupRouter(actor policy.Actor, register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	})
	register(api)
	return r
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
