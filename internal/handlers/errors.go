package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskflow/backend/internal/logger"
	"taskflow/backend/internal/middleware"
	"taskflow/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// respondError maps service errors to their HTTP form. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": validationErr.Error(),
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": services.ErrForbidden.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": services.ErrInvalidCredentials.Error()})
	case errors.Is(err, services.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired refresh token."})
	default:
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
	}
}

// bindBody decodes a JSON body into dst. An empty body leaves dst untouched.
// It writes the error response itself and reports whether the caller may go on.
func bindBody(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		respondError(c, typeError(typeErr))
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed JSON body."})
	return false
}

func typeError(err *json.UnmarshalTypeError) *services.ValidationError {
	e := services.NewValidationError()
	e.Add(err.Field, fmt.Sprintf("The %s field must be a %s.", err.Field, jsonKind(err.Type.Kind().String())))
	return e
}

func jsonKind(kind string) string {
	switch kind {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "int", "int64", "float64":
		return "number"
	default:
		return "valid value"
	}
}

// callerID returns the authenticated user, answering 401 when it is missing.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id route parameter. A malformed id cannot name an
// existing row, so it is answered with 404.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		respondError(c, services.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
