package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/internal/services"
)

// OnboardingHandler handles the candidate-facing onboarding form endpoints
type OnboardingHandler struct {
	onboarding *services.OnboardingService
	logger     *logrus.Logger
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboarding *services.OnboardingService, logger *logrus.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		onboarding: onboarding,
		logger:     logger,
	}
}

// parseSubmissionForm binds the multipart fields and file uploads of a
// submit or resubmit request.
func parseSubmissionForm(c *gin.Context) (*models.SubmissionForm, []models.DocumentUpload, error) {
	var form models.SubmissionForm
	if err := c.ShouldBind(&form); err != nil {
		return nil, nil, err
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}

	docs, err := collectUploads(multipartForm)
	if err != nil {
		return nil, nil, err
	}

	return &form, docs, nil
}

// Submit handles POST /api/onboarding/submit (multipart)
func (h *OnboardingHandler) Submit(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	form, docs, err := parseSubmissionForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	sub, err := h.onboarding.Submit(userCtx.Email, form, docs)
	if err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Onboarding form submitted",
		"submission": sub,
	})
}

// MySubmission handles GET /api/onboarding/my-submission
func (h *OnboardingHandler) MySubmission(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	detail, err := h.onboarding.GetSubmissionByCandidateEmail(userCtx.Email)
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "candidate_not_found",
				Message: "No candidate record found for this account",
			})
			return
		}
		h.logger.WithField("error", err).Error("My-submission lookup failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "submission_retrieval_failed",
			Message: "Failed to retrieve submission",
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Resubmit handles POST /api/onboarding/:id/resubmit (multipart)
func (h *OnboardingHandler) Resubmit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission id",
		})
		return
	}

	form, docs, err := parseSubmissionForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	sub, err := h.onboarding.Resubmit(id, form, docs)
	if err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Onboarding form resubmitted",
		"submission": sub,
	})
}

// respondSubmissionError maps the onboarding service sentinels onto HTTP
// responses shared by submit and resubmit.
func (h *OnboardingHandler) respondSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCandidateNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "candidate_not_found",
			Message: "No candidate record found for this account",
		})
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "submission_not_found",
			Message: "Submission not found",
		})
	case errors.Is(err, services.ErrActiveSubmissionExists):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "submission_exists",
			Message: "You already have an onboarding form under review",
			Code:    "SUBMISSION_EXISTS",
		})
	case errors.Is(err, services.ErrMissingRequiredDocument),
		errors.Is(err, services.ErrInvalidDocumentField),
		errors.Is(err, services.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_status",
			Message: err.Error(),
			Code:    "INVALID_STATUS",
		})
	default:
		h.logger.WithField("error", err).Error("Onboarding submission failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "submission_failed",
			Message: "Failed to process onboarding form",
		})
	}
}
