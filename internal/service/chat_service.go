package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
	"salus-lms/internal/repository"
)

// ErrAssistantForbidden indica que el rol del usuario no habilita el asistente.
var ErrAssistantForbidden = errors.New("assistant not allowed for role")

// ChatService orquesta a los dos asistentes (mentor para staff, analitica para
// managers), persistiendo ambas puntas de la transcripcion.
type ChatService struct {
	llmClient   llm.LLMClient
	messageRepo repository.MessageRepository
	profileSvc  *ProfileService
	logger      *zap.Logger
}

func NewChatService(llmClient llm.LLMClient, messageRepo repository.MessageRepository, profileSvc *ProfileService, logger *zap.Logger) *ChatService {
	return &ChatService{
		llmClient:   llmClient,
		messageRepo: messageRepo,
		profileSvc:  profileSvc,
		logger:      logger,
	}
}

// Chat valida el acceso, arma el prompt con el SWOT vigente y la ventana de
// conversacion, genera la respuesta y guarda ambos mensajes.
func (s *ChatService) Chat(ctx context.Context, user domain.User, assistant, userMessage string) (domain.ChatMessage, error) {
	if err := checkAssistantAccess(user.Role, assistant); err != nil {
		return domain.ChatMessage{}, err
	}

	swot, hasSwot := domain.SwotResult{}, false
	if s.profileSvc != nil {
		latest, ok, err := s.profileSvc.LatestAssessment(ctx, user.ID)
		if err == nil && ok {
			swot, hasSwot = latest.Swot, true
		}
		// Sin perfil o sin historia: el asistente responde igual, sin SWOT.
	}

	contextText, err := s.recentContext(ctx, user.ID, assistant)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("get context: %w", err)
	}

	prompt := buildAssistantPrompt(assistantPromptInput{
		Assistant:   assistant,
		DisplayName: user.DisplayName,
		IsManager:   assistant == domain.AssistantAnalytics,
		HasSwot:     hasSwot,
		Swot:        swot,
		ContextText: contextText,
		UserMessage: userMessage,
	})

	response, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("llm generate: %w", err)
	}

	now := time.Now().UTC()
	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Assistant: assistant,
		Content:   userMessage,
		Role:      "user",
		CreatedAt: now,
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("persist user message: %w", err)
	}

	assistantMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Assistant: assistant,
		Content:   response,
		Role:      "assistant",
		CreatedAt: now,
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("persist assistant message: %w", err)
	}

	return assistantMsg, nil
}

// recentContext formatea los ultimos 10 mensajes como texto plano.
func (s *ChatService) recentContext(ctx context.Context, userID, assistant string) (string, error) {
	messages, err := s.messageRepo.ListByUserAssistant(ctx, userID, assistant)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > 10 {
		messages = messages[len(messages)-10:]
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := "Usuario"
		if strings.EqualFold(m.Role, "assistant") {
			role = "Asistente"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, m.Content))
	}
	return strings.Join(lines, "\n"), nil
}

func checkAssistantAccess(role, assistant string) error {
	switch assistant {
	case domain.AssistantMentor:
		if role == domain.RoleStaff || role == domain.RoleManager {
			return nil
		}
	case domain.AssistantAnalytics:
		if role == domain.RoleManager || role == domain.RoleAdmin {
			return nil
		}
	}
	return ErrAssistantForbidden
}
