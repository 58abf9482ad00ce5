package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError renders err with the status of its kind. Internal errors are
// attached to the gin context for the request logger and rendered
// generically.
func respondError(c *gin.Context, err error) {
	appErr := apperr.As(err)
	if appErr == nil || appErr.Kind == apperr.KindInternal {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), body)
}

// badRequest reports malformed input that never reached a service.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// paramID parses a positive integer path parameter. A malformed id cannot
// name an existing object, so it is reported as not found.
func paramID(c *gin.Context, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		respondError(c, apperr.NotFound(resource))
		return 0, false
	}
	return id, true
}
