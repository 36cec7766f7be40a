package middleware

import (
	"net/http"
	"runtime/debug"

	"taskflow/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RecoveryWithLog turns a handler panic into a logged 500 response.
func RecoveryWithLog() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
