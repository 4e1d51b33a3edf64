package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sparklab/ideahub-backend/internal/http/middleware"
	"github.com/sparklab/ideahub-backend/internal/http/response"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/services"
	"github.com/sparklab/ideahub-backend/internal/types"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserPayload(u *types.User) userPayload {
	return userPayload{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// setTokenCookie mirrors the token TTL: HTTP-only, SameSite=Strict, one-day
// max-age, secure outside development.
func setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(middleware.TokenCookie, token, int(services.TokenTTL.Seconds()), "/", "", secure, true)
}

func clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", secure, true)
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	user, token, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		ah.log.Warn("Registration failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	setTokenCookie(c, token)
	response.RespondCreated(c, gin.H{"success": true, "user": toUserPayload(user)})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	user, token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ah.log.Warn("Login failed", "email", req.Email, "error", err)
		response.RespondAppError(c, err)
		return
	}
	setTokenCookie(c, token)
	response.RespondOK(c, gin.H{"success": true, "user": toUserPayload(user)})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	response.RespondOK(c, gin.H{"success": true})
}
