package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/learning"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
)

// LearningHandler serves the learning materials catalogue to new joiners
type LearningHandler struct {
	materials []learning.Material
	logger    *logrus.Logger
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(materials []learning.Material, logger *logrus.Logger) *LearningHandler {
	return &LearningHandler{
		materials: materials,
		logger:    logger,
	}
}

// ListMaterials handles GET /api/learning/materials
func (h *LearningHandler) ListMaterials(c *gin.Context) {
	if _, exists := middleware.GetUserContext(c); !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(h.materials),
		"materials": h.materials,
	})
}
