package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/internal/services"
)

// AdminHandler handles the HR review and joining endpoints
type AdminHandler struct {
	onboarding *services.OnboardingService
	audit      *services.AuditService
	logger     *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(onboarding *services.OnboardingService, audit *services.AuditService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		onboarding: onboarding,
		audit:      audit,
		logger:     logger,
	}
}

// ListSubmissions handles GET /api/admin/submissions
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	subs, err := h.onboarding.ListSubmissions()
	if err != nil {
		h.logger.WithField("error", err).Error("Submission list failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "submission_list_failed",
			Message: "Failed to list submissions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": subs,
		"total":       len(subs),
	})
}

// GetSubmission handles GET /api/admin/submissions/:id
func (h *AdminHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission id",
		})
		return
	}

	detail, err := h.onboarding.GetSubmission(id)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "submission_not_found",
				Message: "Submission not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "submission_retrieval_failed",
			Message: "Failed to retrieve submission",
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DownloadDocument handles GET /api/admin/submissions/:id/document/:ref.
// The ref is either a document field name or a document id.
func (h *AdminHandler) DownloadDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission id",
		})
		return
	}

	ref := c.Param("ref")

	var doc *models.Document
	if docID, parseErr := uuid.Parse(ref); parseErr == nil {
		doc, err = h.onboarding.GetDocument(id, docID)
	} else {
		doc, err = h.onboarding.GetDocumentByField(id, ref)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDocumentField):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_document_field",
				Message: "Unknown document field",
			})
		case errors.Is(err, services.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "document_not_found",
				Message: "Document not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "document_retrieval_failed",
				Message: "Failed to retrieve document",
			})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Approve handles POST /api/admin/submissions/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission id",
		})
		return
	}

	var req models.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	sub, err := h.onboarding.Approve(id, userCtx.UserID, req.Remarks, req.DateOfJoining)
	if err != nil {
		h.respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Submission approved, onboarding pass sent",
		"submission": sub,
	})
}

// Reject handles POST /api/admin/submissions/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission id",
		})
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.onboarding.Reject(id, userCtx.UserID, req.Remarks); err != nil {
		h.respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission rejected"})
}

// RequestRevision handles POST /api/admin/submissions/:id/request-revision
func (h *AdminHandler) RequestRevision(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission id",
		})
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	sub, err := h.onboarding.RequestRevision(id, userCtx.UserID, req.Remarks)
	if err != nil {
		h.respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Revision requested",
		"submission": sub,
	})
}

// PassPreview handles GET /api/admin/onboarding-pass/:token (public)
func (h *AdminHandler) PassPreview(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "invalid_token",
			Message: "Onboarding pass link is invalid or has expired",
		})
		return
	}

	sub, err := h.onboarding.PassPreview(token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassToken) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "invalid_token",
				Message: "Onboarding pass link is invalid or has expired",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "pass_lookup_failed",
			Message: "Failed to look up onboarding pass",
		})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// AcceptPass handles POST /api/admin/accept-onboarding-pass/:token (public)
func (h *AdminHandler) AcceptPass(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "invalid_token",
			Message: "Onboarding pass link is invalid or has expired",
		})
		return
	}

	acceptance, err := h.onboarding.AcceptPass(token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassToken) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "invalid_token",
				Message: "Onboarding pass link is invalid or has expired",
			})
			return
		}
		h.logger.WithField("error", err).Error("Pass acceptance failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "pass_acceptance_failed",
			Message: "Failed to accept onboarding pass",
		})
		return
	}

	// The derived password is shown exactly once, on this page
	c.JSON(http.StatusOK, gin.H{
		"message":          "Welcome aboard! Your joining is complete.",
		"employee":         acceptance.Employee,
		"initial_password": acceptance.InitialPassword,
	})
}

// DashboardStats handles GET /api/admin/dashboard/stats
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.onboarding.GetDashboardStats()
	if err != nil {
		h.logger.WithField("error", err).Error("Dashboard stats failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "stats_retrieval_failed",
			Message: "Failed to compute dashboard stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// QueryAuditLog handles GET /api/admin/query-audit
func (h *AdminHandler) QueryAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.audit.RecentQueries(limit)
	if err != nil {
		h.logger.WithField("error", err).Error("Query audit read failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "audit_retrieval_failed",
			Message: "Failed to read the query audit log",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// respondReviewError maps review-action sentinels onto HTTP responses
func (h *AdminHandler) respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "submission_not_found",
			Message: "Submission not found",
		})
	case errors.Is(err, services.ErrRemarksRequired),
		errors.Is(err, services.ErrJoiningDateRequired),
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
		h.logger.WithField("error", err).Error("Review action failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "review_action_failed",
			Message: "Failed to process review action",
		})
	}
}
