package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/helmhq/helm/ai-gateway/internal/ai"
	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/helmhq/helm/ai-gateway/internal/proposals"
	"go.uber.org/zap"
)

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describeFieldError(fe)
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Request validation failed",
			Code:    models.ErrCodeValidationFailed,
			Details: details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: "Invalid request body",
		Code:  models.ErrCodeInvalidRequest,
	})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// respondServiceError maps service errors onto status codes. Upstream
// failures always produce the same opaque body.
func respondServiceError(c *gin.Context, err error) {
	var aiErr *ai.Error
	switch {
	case errors.As(err, &aiErr):
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: aiErr.PublicMessage(),
			Code:  models.ErrCodeInternalError,
		})

	case errors.Is(err, ai.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Request validation failed",
			Code:    models.ErrCodeValidationFailed,
			Details: map[string]string{"validation_scope": "must be one of: rules_only, selective, full"},
		})

	case errors.Is(err, ai.ErrMissingProposalID):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Request validation failed",
			Code:    models.ErrCodeValidationFailed,
			Details: map[string]string{"proposalId": "is required"},
		})

	case errors.Is(err, ai.ErrMissingIdentity):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "User not authenticated",
			Code:  models.ErrCodeUnauthorized,
		})

	case errors.Is(err, proposals.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: "Proposal has already been resolved with a different decision",
			Code:  models.ErrCodeConflict,
		})

	default:
		ctxzap.Extract(c.Request.Context()).Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Internal server error",
			Code:  models.ErrCodeInternalError,
		})
	}
}
