package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/chatbot"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
	"github.com/winwire/hr-onboarding-backend/internal/query"
	"github.com/winwire/hr-onboarding-backend/internal/utils"
)

// ChatbotHandler handles the assistant endpoints
type ChatbotHandler struct {
	bot     *chatbot.Service
	queries *query.Service
	logger  *logrus.Logger
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(bot *chatbot.Service, queries *query.Service, logger *logrus.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		bot:     bot,
		queries: queries,
		logger:  logger,
	}
}

// MessageRequest is the payload for POST /api/chatbot/message
type MessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatbotHandler) actor(c *gin.Context, userCtx middleware.UserContext) query.Actor {
	return query.Actor{
		ID:        userCtx.UserID,
		IP:        utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}

// Message handles POST /api/chatbot/message
func (h *ChatbotHandler) Message(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Message is required",
		})
		return
	}

	reply, err := h.bot.Message(req.Message, userCtx.Role, h.actor(c, userCtx))
	if err != nil {
		if errors.Is(err, chatbot.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Message is required",
			})
			return
		}
		h.logger.WithField("error", err).Error("Chatbot message failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "chatbot_failed",
			Message: "Failed to process message",
		})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// ListTemplates handles GET /api/chatbot/templates
func (h *ChatbotHandler) ListTemplates(c *gin.Context) {
	templates := query.Templates()
	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// ExecuteTemplate handles POST /api/chatbot/templates/:id
func (h *ChatbotHandler) ExecuteTemplate(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	result, err := h.queries.ExecuteTemplate(c.Param("id"), h.actor(c, userCtx))
	if err != nil {
		if errors.Is(err, query.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "template_not_found",
				Message: "Unknown query template",
			})
			return
		}
		h.logger.WithField("error", err).Error("Template execution failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "template_execution_failed",
			Message: "Failed to execute query template",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
