package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps sentinel errors to their HTTP status. Anything
// unclassified becomes a generic 500 with no internal detail; the caller is
// expected to have logged the real error server-side.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrTooSimilar):
		RespondError(c, http.StatusBadRequest, "too_similar", err)
	case errors.Is(err, apperr.ErrEmailTaken):
		RespondError(c, http.StatusBadRequest, "email_taken", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperr.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
	case errors.Is(err, apperr.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("forbidden"))
	case errors.Is(err, apperr.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrGeneration):
		RespondError(c, http.StatusInternalServerError, "generation_failed", errors.New("generation service failed, please try again later"))
	default:
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}
