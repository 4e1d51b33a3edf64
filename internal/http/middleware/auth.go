package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sparklab/ideahub-backend/internal/http/response"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/requestdata"
	"github.com/sparklab/ideahub-backend/internal/services"
)

// TokenCookie is the identity cookie name shared with the auth handlers.
const TokenCookie = "token"

type AuthMiddleware struct {
	log    *logger.Logger
	tokens services.TokenService
}

func NewAuthMiddleware(log *logger.Logger, tokens services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), tokens: tokens}
}

// RequireRole authenticates the request from the identity cookie and
// enforces the role before any handler runs. Missing or invalid tokens are
// 401, a wrong role is 403; the handler chain is aborted either way so no
// partial side effects can occur.
func (am *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookie)
		if err != nil || tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		claims, err := am.tokens.Verify(tokenString)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		if claims.Role != role {
			response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("forbidden"))
			c.Abort()
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		rd := &requestdata.RequestData{
			UserID: userID,
			Email:  claims.Email,
			Role:   claims.Role,
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}
