package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
)

// ReassessmentWindow es la ventana de vigencia de una evaluacion. Frontera
// cerrada: una evaluacion de exactamente 90 dias ya cuenta como vencida.
const ReassessmentWindow = 90 * 24 * time.Hour

// ErrIncompleteQuestionnaire indica un envio con preguntas sin responder.
// La capa de formularios debe impedirlo; aca es la ultima barrera antes del LLM.
var ErrIncompleteQuestionnaire = errors.New("incomplete questionnaire")

// AssessmentService orquesta el pipeline cuestionario -> SWOT -> recomendacion
// -> registro inmutable, y decide cuando corresponde reevaluar.
type AssessmentService struct {
	swotSvc        *SwotService
	recommendSvc   *RecommendService
	profileRepo    repository.ProfileRepository
	assessmentRepo repository.AssessmentRepository
	courseRepo     repository.CourseRepository
	logger         *zap.Logger
	now            func() time.Time
}

func NewAssessmentService(
	swotSvc *SwotService,
	recommendSvc *RecommendService,
	profileRepo repository.ProfileRepository,
	assessmentRepo repository.AssessmentRepository,
	courseRepo repository.CourseRepository,
	logger *zap.Logger,
) *AssessmentService {
	return &AssessmentService{
		swotSvc:        swotSvc,
		recommendSvc:   recommendSvc,
		profileRepo:    profileRepo,
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SubmitAssessment ejecuta el pipeline completo para un usuario. El SWOT debe
// completarse antes de pedir la recomendacion, y recien cuando ambos pasos
// terminan se persiste: una llamada cancelada nunca deja escrituras parciales.
func (s *AssessmentService) SubmitAssessment(ctx context.Context, userID string, responses map[string]string) (domain.Assessment, error) {
	if len(responses) == 0 {
		return domain.Assessment{}, ErrIncompleteQuestionnaire
	}
	for q, answer := range responses {
		if strings.TrimSpace(q) == "" || strings.TrimSpace(answer) == "" {
			return domain.Assessment{}, ErrIncompleteQuestionnaire
		}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("get profile for user %s: %w", userID, err)
	}

	serialized := SerializeResponses(responses)

	swot, err := s.swotSvc.GenerateSwot(ctx, serialized)
	if err != nil {
		return domain.Assessment{}, err
	}

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("list catalog: %w", err)
	}

	path, err := s.recommendSvc.Recommend(ctx, swot, courses)
	if err != nil {
		return domain.Assessment{}, err
	}

	return s.RecordAssessment(ctx, profile.ID, swot, path, serialized)
}

// RecordAssessment agrega un registro inmutable con timestamp del servidor.
// Nunca sobreescribe ni borra entradas previas.
func (s *AssessmentService) RecordAssessment(ctx context.Context, profileID string, swot domain.SwotResult, path domain.LearningPath, responses string) (domain.Assessment, error) {
	assessment := domain.Assessment{
		ID:           uuid.NewString(),
		ProfileID:    profileID,
		Swot:         swot,
		LearningPath: path,
		Responses:    responses,
		AppliedAt:    s.now(),
	}

	stored, err := s.assessmentRepo.Append(ctx, assessment)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("append assessment: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("assessment recorded",
			zap.String("profile_id", profileID),
			zap.Int("learning_path_len", len(path)),
		)
	}
	return stored, nil
}

// IsAssessmentRequired aplica la politica de vencimiento sobre la historia.
// Requerida si no hay evaluaciones o si la mas reciente tiene >= 90 dias.
// El gating por rol es responsabilidad del caller.
func (s *AssessmentService) IsAssessmentRequired(ctx context.Context, profileID string) (bool, error) {
	assessments, err := s.assessmentRepo.ListByProfileID(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("list assessments: %w", err)
	}
	return StalenessRequired(assessments, s.now()), nil
}

// IsAssessmentRequiredForUser resuelve el perfil del usuario y aplica la
// misma politica de vencimiento.
func (s *AssessmentService) IsAssessmentRequiredForUser(ctx context.Context, userID string) (bool, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get profile for user %s: %w", userID, err)
	}
	return s.IsAssessmentRequired(ctx, profile.ID)
}

// StalenessRequired es la regla pura de vencimiento, separada para tests.
func StalenessRequired(assessments []domain.Assessment, now time.Time) bool {
	latest, ok := Latest(assessments)
	if !ok {
		return true
	}
	return now.Sub(latest.AppliedAt) >= ReassessmentWindow
}
