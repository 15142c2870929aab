package service

import (
	"context"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
	"salus-lms/internal/repository"
)

// CourseSearchService indexa cursos con embeddings y resuelve busquedas
// semanticas sobre el catalogo.
type CourseSearchService struct {
	llmClient  llm.LLMClient
	courseRepo repository.CourseRepository
	logger     *zap.Logger
}

func NewCourseSearchService(llmClient llm.LLMClient, courseRepo repository.CourseRepository, logger *zap.Logger) *CourseSearchService {
	return &CourseSearchService{
		llmClient:  llmClient,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// IndexCourse genera y guarda el embedding de titulo + descripcion.
func (s *CourseSearchService) IndexCourse(ctx context.Context, course domain.Course) error {
	text := course.Title + "\n" + course.Description
	embed, err := s.llmClient.CreateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("create embedding: %w", err)
	}
	if err := s.courseRepo.SetEmbedding(ctx, course.ID, pgvector.NewVector(embed)); err != nil {
		return fmt.Errorf("set embedding: %w", err)
	}
	return nil
}

// Search devuelve hasta k cursos ordenados por similitud con la consulta.
func (s *CourseSearchService) Search(ctx context.Context, query string, k int) ([]domain.Course, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	embed, err := s.llmClient.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	courses, err := s.courseRepo.SearchSimilar(ctx, pgvector.NewVector(embed), k)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("course search", zap.String("query", query), zap.Int("hits", len(courses)))
	}
	return courses, nil
}
