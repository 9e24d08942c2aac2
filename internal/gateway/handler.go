package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/helmhq/helm/ai-gateway/internal/auth"
	"github.com/helmhq/helm/ai-gateway/internal/models"
)

// AIService is the proxy service behind the /api/ai routes
type AIService interface {
	Validate(ctx context.Context, req models.ValidationRequest, userID, projectID string) (json.RawMessage, error)
	AnswerQuestion(ctx context.Context, projectID, question, userID string) (json.RawMessage, error)
	AcceptProposal(ctx context.Context, proposalID string, modifications map[string]any, userID string) (*models.AcceptProposalResponse, error)
	RejectProposal(ctx context.Context, proposalID, feedback, userID string) (*models.RejectProposalResponse, error)
}

// Handler handles HTTP requests for the AI routes
type Handler struct {
	aiService AIService
}

// NewHandler creates a new gateway handler
func NewHandler(aiService AIService) *Handler {
	return &Handler{aiService: aiService}
}

// Validate godoc
// @Summary Validate a project component
// @Description Forward a component to the AI service for validation. The AI service response is returned unchanged.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body models.ValidationRequest true "Component to validate"
// @Success 200 {object} models.ValidationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ai/validate [post]
func (h *Handler) Validate(c *gin.Context) {
	var req models.ValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	body, err := h.aiService.Validate(c.Request.Context(), req, identity.UserID, req.ProjectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondRaw(c, body)
}

// AnswerQuestion godoc
// @Summary Ask a question about a project
// @Description Forward a free-form question to the AI service. The AI service response is returned unchanged.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body models.AnswerQuestionRequest true "Question"
// @Success 200 {object} interface{} "AI service answer, any JSON document"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ai/answer-question [post]
func (h *Handler) AnswerQuestion(c *gin.Context) {
	var req models.AnswerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	body, err := h.aiService.AnswerQuestion(c.Request.Context(), req.ProjectID, req.Question, identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondRaw(c, body)
}

// AcceptProposal godoc
// @Summary Accept an AI proposal
// @Description Record that the caller accepted a proposal
// @Tags proposals
// @Accept json
// @Produce json
// @Param request body models.AcceptProposalRequest true "Proposal to accept"
// @Success 200 {object} models.AcceptProposalResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ai/proposals/accept [post]
func (h *Handler) AcceptProposal(c *gin.Context) {
	var req models.AcceptProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.aiService.AcceptProposal(c.Request.Context(), req.ProposalID, req.Modifications, identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RejectProposal godoc
// @Summary Reject an AI proposal
// @Description Record that the caller rejected a proposal, with optional feedback
// @Tags proposals
// @Accept json
// @Produce json
// @Param request body models.RejectProposalRequest true "Proposal to reject"
// @Success 200 {object} models.RejectProposalResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ai/proposals/reject [post]
func (h *Handler) RejectProposal(c *gin.Context) {
	var req models.RejectProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.aiService.RejectProposal(c.Request.Context(), req.ProposalID, req.Feedback, identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func requireIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "User not authenticated",
			Code:  models.ErrCodeUnauthorized,
		})
	}
	return identity, ok
}

// respondRaw writes the AI service body without re-encoding it
func respondRaw(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
