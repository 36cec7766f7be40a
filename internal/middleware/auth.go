package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"taskflow/backend/internal/logger"
	"taskflow/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "token_claims"
)

// TokenVerifier resolves a bearer token to its claims.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*services.AccessClaims, error)
}

// Authenticate requires a valid bearer access token and stores the caller's
// user id and token claims on the gin context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			unauthenticated(c)
			return
		}

		claims, err := verifier.VerifyAccessToken(c.Request.Context(), strings.TrimSpace(tokenStr))
		if err != nil {
			if !errors.Is(err, services.ErrInvalidAccessToken) {
				logger.ErrorContext(c.Request.Context(), "token verification failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
				return
			}
			unauthenticated(c)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated caller set by Authenticate.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func Claims(c *gin.Context) *services.AccessClaims {
	value, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := value.(*services.AccessClaims)
	return claims
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
}
