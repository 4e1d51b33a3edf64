package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sparklab/ideahub-backend/internal/ai"
	redisclient "github.com/sparklab/ideahub-backend/internal/clients/redis"
	"github.com/sparklab/ideahub-backend/internal/http/response"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/requestdata"
	"github.com/sparklab/ideahub-backend/internal/services"
)

type StudentHandler struct {
	log         *logger.Logger
	generation  services.GenerationService
	ideaService services.IdeaService
	limiter     redisclient.RateLimiter
}

// NewStudentHandler accepts a nil limiter; rate limiting is skipped when
// Redis is not configured.
func NewStudentHandler(
	log *logger.Logger,
	generation services.GenerationService,
	ideaService services.IdeaService,
	limiter redisclient.RateLimiter,
) *StudentHandler {
	return &StudentHandler{
		log:         log.With("handler", "StudentHandler"),
		generation:  generation,
		ideaService: ideaService,
		limiter:     limiter,
	}
}

func (sh *StudentHandler) GenerateIdea(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
		return
	}

	if sh.limiter != nil {
		allowed, err := sh.limiter.Allow(c.Request.Context(), "generate:"+rd.UserID.String())
		if err != nil {
			sh.log.Warn("Rate limiter unavailable, allowing request", "error", err)
		} else if !allowed {
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", errors.New("too many generation requests, slow down"))
			return
		}
	}

	var req struct {
		AreasOfInterest string `json:"areasOfInterest"`
		DomainInterest  string `json:"domainInterest"`
		LanguagesKnown  string `json:"languagesKnown"`
		AdditionalInfo  string `json:"additionalInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	idea, err := sh.generation.GenerateIdea(c.Request.Context(), ai.GenerationInput{
		AreasOfInterest: req.AreasOfInterest,
		DomainInterest:  req.DomainInterest,
		LanguagesKnown:  req.LanguagesKnown,
		AdditionalInfo:  req.AdditionalInfo,
	})
	if err != nil {
		sh.log.Warn("Idea generation failed", "user_id", rd.UserID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"idea": idea})
}

func (sh *StudentHandler) SubmitIdea(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
		return
	}

	var req struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		AreasOfInterest string `json:"areasOfInterest"`
		DomainInterest  string `json:"domainInterest"`
		LanguagesKnown  string `json:"languagesKnown"`
		AdditionalInfo  string `json:"additionalInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	idea, err := sh.ideaService.Submit(c.Request.Context(), rd.UserID, services.IdeaDraft{
		Title:           req.Title,
		Description:     req.Description,
		AreasOfInterest: req.AreasOfInterest,
		DomainInterest:  req.DomainInterest,
		LanguagesKnown:  req.LanguagesKnown,
		AdditionalInfo:  req.AdditionalInfo,
	})
	if err != nil {
		sh.log.Warn("Idea submission failed", "user_id", rd.UserID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"message": "Project idea submitted successfully",
		"idea":    idea,
	})
}

func (sh *StudentHandler) ListIdeas(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
		return
	}
	ideas, err := sh.ideaService.ListForStudent(c.Request.Context(), rd.UserID)
	if err != nil {
		sh.log.Warn("Listing student ideas failed", "user_id", rd.UserID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ideas": ideas})
}
