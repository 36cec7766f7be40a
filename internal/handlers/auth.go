package handlers

import (
	"net/http"

	"taskflow/backend/internal/logger"
	"taskflow/backend/internal/middleware"
	"taskflow/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	registerService services.RegisterService
	authService     services.AuthService
}

func NewAuthHandler(registerService services.RegisterService, authService services.AuthService) *AuthHandler {
	return &AuthHandler{registerService: registerService, authService: authService}
}

// Register creates the account and signs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegistrationRequest
	if !bindBody(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.registerService.RegisterUser(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := h.authService.IssueSession(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindBody(c, &req) {
		return
	}

	session, err := h.authService.LoginUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if !bindBody(c, &req) {
		return
	}

	session, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID, middleware.Claims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
