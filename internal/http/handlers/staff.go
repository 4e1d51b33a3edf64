package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sparklab/ideahub-backend/internal/http/response"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/requestdata"
	"github.com/sparklab/ideahub-backend/internal/services"
)

type StaffHandler struct {
	log         *logger.Logger
	ideaService services.IdeaService
	similarity  services.SimilarityService
}

func NewStaffHandler(log *logger.Logger, ideaService services.IdeaService, similarity services.SimilarityService) *StaffHandler {
	return &StaffHandler{
		log:         log.With("handler", "StaffHandler"),
		ideaService: ideaService,
		similarity:  similarity,
	}
}

func (st *StaffHandler) ListIdeas(c *gin.Context) {
	ideas, err := st.ideaService.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		st.log.Warn("Listing ideas failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ideas": ideas})
}

func (st *StaffHandler) CheckSimilarity(c *gin.Context) {
	ideaID, ok := bindIdeaID(c)
	if !ok {
		return
	}
	result, err := st.ideaService.CheckSimilarity(c.Request.Context(), ideaID)
	if err != nil {
		st.log.Warn("Similarity check failed", "idea_id", ideaID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":         true,
		"similarityScore": result.SimilarityScore,
		"uniquenessScore": result.UniquenessScore,
		"isUnique":        result.IsUnique,
	})
}

func (st *StaffHandler) SimilarityDetails(c *gin.Context) {
	ideaID, ok := bindIdeaID(c)
	if !ok {
		return
	}
	details, err := st.similarity.Details(c.Request.Context(), ideaID)
	if err != nil {
		st.log.Warn("Similarity details failed", "idea_id", ideaID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, details)
}

func (st *StaffHandler) ReviewIdea(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
		return
	}

	var req struct {
		IdeaID   string `json:"ideaId"`
		Status   string `json:"status"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	if req.IdeaID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("idea id is required"))
		return
	}
	ideaID, err := uuid.Parse(req.IdeaID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("invalid idea id"))
		return
	}

	idea, err := st.ideaService.Review(c.Request.Context(), rd.UserID, services.ReviewDecision{
		IdeaID:   ideaID,
		Status:   req.Status,
		Feedback: req.Feedback,
	})
	if err != nil {
		st.log.Warn("Review failed", "idea_id", ideaID, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"message": fmt.Sprintf("Project idea has been %s", idea.Status),
		"idea":    idea,
	})
}

func bindIdeaID(c *gin.Context) (uuid.UUID, bool) {
	var req struct {
		IdeaID string `json:"ideaId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IdeaID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("idea id is required"))
		return uuid.Nil, false
	}
	ideaID, err := uuid.Parse(req.IdeaID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("invalid idea id"))
		return uuid.Nil, false
	}
	return ideaID, true
}
