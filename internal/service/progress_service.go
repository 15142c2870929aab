package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
)

var ErrLessonOutOfRange = errors.New("lesson index out of range")

// ProgressService registra lecciones completadas y resume avance por curso.
type ProgressService struct {
	progressRepo repository.ProgressRepository
	courseRepo   repository.CourseRepository
}

func NewProgressService(progressRepo repository.ProgressRepository, courseRepo repository.CourseRepository) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
	}
}

// CompleteLesson marca la leccion como completada. Idempotente.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, courseID string, lessonIndex int) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if lessonIndex < 0 || lessonIndex >= course.Lessons {
		return ErrLessonOutOfRange
	}

	return s.progressRepo.MarkComplete(ctx, domain.LessonProgress{
		ID:          uuid.NewString(),
		UserID:      userID,
		CourseID:    courseID,
		LessonIndex: lessonIndex,
		CompletedAt: time.Now().UTC(),
	})
}

// CourseProgress devuelve el porcentaje de avance del usuario en un curso.
func (s *ProgressService) CourseProgress(ctx context.Context, userID, courseID string) (domain.CourseProgress, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return domain.CourseProgress{}, fmt.Errorf("get course: %w", err)
	}

	completed, err := s.progressRepo.CountCompleted(ctx, userID, courseID)
	if err != nil {
		return domain.CourseProgress{}, fmt.Errorf("count completed: %w", err)
	}

	progress := domain.CourseProgress{
		CourseID:         courseID,
		CompletedLessons: completed,
		TotalLessons:     course.Lessons,
	}
	if course.Lessons > 0 {
		progress.Percent = float64(completed) / float64(course.Lessons) * 100
	}
	return progress, nil
}
