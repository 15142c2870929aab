package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
	"salus-lms/internal/service"
)

// ChatHandler expone los asistentes conversacionales.
type ChatHandler struct {
	logger   *zap.Logger
	chatSvc  *service.ChatService
	userRepo repository.UserRepository
	msgRepo  repository.MessageRepository
}

func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService, userRepo repository.UserRepository, msgRepo repository.MessageRepository) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatSvc:  chatSvc,
		userRepo: userRepo,
		msgRepo:  msgRepo,
	}
}

func parseAssistant(raw string) (string, bool) {
	switch raw {
	case domain.AssistantMentor, domain.AssistantAnalytics:
		return raw, true
	}
	return "", false
}

// Send maneja POST /chat/:assistant.
func (h *ChatHandler) Send(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	assistant, ok := parseAssistant(c.Param("assistant"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown assistant"})
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	reply, err := h.chatSvc.Chat(c.Request.Context(), user, assistant, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssistantForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "assistant not available for your role"})
		default:
			h.logger.Error("chat failed", zap.Error(err), zap.String("assistant", assistant))
			c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

// History maneja GET /chat/:assistant/history.
func (h *ChatHandler) History(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	assistant, ok := parseAssistant(c.Param("assistant"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown assistant"})
		return
	}

	messages, err := h.msgRepo.ListByUserAssistant(c.Request.Context(), claims.UserID, assistant)
	if err != nil {
		h.logger.Error("chat history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
