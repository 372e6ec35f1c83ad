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

// CandidateHandler handles the HR offer pipeline endpoints
type CandidateHandler struct {
	candidates *services.CandidateService
	logger     *logrus.Logger
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(candidates *services.CandidateService, logger *logrus.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidates: candidates,
		logger:     logger,
	}
}

// Create handles POST /api/candidates (multipart, optional offer_letter file)
func (h *CandidateHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	var req models.CreateCandidateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Full name, email, phone, position and department are required",
		})
		return
	}

	var offerLetter *models.DocumentUpload
	if fh, err := c.FormFile("offer_letter"); err == nil {
		doc, err := readUpload(models.DocOfferLetter, fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_file",
				Message: err.Error(),
			})
			return
		}
		offerLetter = doc
	}

	candidate, err := h.candidates.Create(userCtx.UserID, &req, offerLetter)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateCandidateEmail) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_email",
				Message: "A candidate with this email already exists",
				Code:    "DUPLICATE_EMAIL",
			})
			return
		}
		h.logger.WithField("error", err).Error("Candidate creation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "candidate_creation_failed",
			Message: "Failed to create candidate",
		})
		return
	}

	c.JSON(http.StatusCreated, candidate)
}

// List handles GET /api/candidates
func (h *CandidateHandler) List(c *gin.Context) {
	candidates, err := h.candidates.List()
	if err != nil {
		h.logger.WithField("error", err).Error("Candidate list failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "candidate_list_failed",
			Message: "Failed to list candidates",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"total":      len(candidates),
	})
}

// Get handles GET /api/candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid candidate id",
		})
		return
	}

	candidate, err := h.candidates.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "candidate_not_found",
				Message: "Candidate not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "candidate_retrieval_failed",
			Message: "Failed to retrieve candidate",
		})
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// AcceptOffer handles POST /api/candidates/accept-offer/:token (public)
func (h *CandidateHandler) AcceptOffer(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		// Malformed tokens get the same answer as unknown ones
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "invalid_token",
			Message: "Offer link is invalid or has expired",
		})
		return
	}

	candidate, err := h.candidates.AcceptOffer(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOfferToken):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "invalid_token",
				Message: "Offer link is invalid or has expired",
			})
		case errors.Is(err, services.ErrOfferAlreadyAccepted):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "offer_already_accepted",
				Message: "This offer has already been accepted",
				Code:    "OFFER_ACCEPTED",
			})
		default:
			h.logger.WithField("error", err).Error("Offer acceptance failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "offer_acceptance_failed",
				Message: "Failed to accept offer",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Offer accepted successfully",
		"candidate": candidate,
	})
}

// TriggerJoining handles POST /api/candidates/:id/trigger-joining
func (h *CandidateHandler) TriggerJoining(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid candidate id",
		})
		return
	}

	candidate, err := h.candidates.TriggerJoining(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCandidateNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "candidate_not_found",
				Message: "Candidate not found",
			})
		case errors.Is(err, services.ErrOfferNotAccepted):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "offer_not_accepted",
				Message: "The candidate has not accepted the offer yet",
				Code:    "OFFER_NOT_ACCEPTED",
			})
		case errors.Is(err, services.ErrJoiningAlreadyTriggered):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "joining_already_triggered",
				Message: "Joining has already been triggered for this candidate",
				Code:    "ALREADY_TRIGGERED",
			})
		default:
			h.logger.WithField("error", err).Error("Trigger joining failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "trigger_joining_failed",
				Message: "Failed to trigger joining",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Joining triggered, portal credentials sent",
		"candidate": candidate,
	})
}

// DownloadOfferLetter handles GET /api/candidates/:id/offer-letter
func (h *CandidateHandler) DownloadOfferLetter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid candidate id",
		})
		return
	}

	doc, err := h.candidates.GetOfferLetter(id)
	if err != nil {
		if errors.Is(err, services.ErrOfferLetterMissing) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "offer_letter_not_found",
				Message: "No offer letter stored for this candidate",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "offer_letter_retrieval_failed",
			Message: "Failed to retrieve offer letter",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
