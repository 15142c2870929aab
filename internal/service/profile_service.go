package service

import (
	"context"
	"fmt"
	"sort"

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
)

// ProfileService expone la ultima evaluacion y la historia completa para la
// UI y reportes. Solo lectura; el re-ordenado ocurre del lado de lectura.
type ProfileService struct {
	profileRepo    repository.ProfileRepository
	assessmentRepo repository.AssessmentRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, assessmentRepo repository.AssessmentRepository) *ProfileService {
	return &ProfileService{
		profileRepo:    profileRepo,
		assessmentRepo: assessmentRepo,
	}
}

// LatestAssessment devuelve la evaluacion mas reciente del usuario, si existe.
func (s *ProfileService) LatestAssessment(ctx context.Context, userID string) (domain.Assessment, bool, error) {
	assessments, err := s.history(ctx, userID)
	if err != nil {
		return domain.Assessment{}, false, err
	}
	latest, ok := Latest(assessments)
	return latest, ok, nil
}

// AssessmentHistory devuelve la historia ordenada de mas nueva a mas vieja.
func (s *ProfileService) AssessmentHistory(ctx context.Context, userID string) ([]domain.Assessment, error) {
	assessments, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SortNewestFirst(assessments), nil
}

func (s *ProfileService) history(ctx context.Context, userID string) ([]domain.Assessment, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	assessments, err := s.assessmentRepo.ListByProfileID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

// Latest elige el registro con appliedAt mas reciente; empates los gana la
// insercion mas tardia (seq mayor).
func Latest(assessments []domain.Assessment) (domain.Assessment, bool) {
	if len(assessments) == 0 {
		return domain.Assessment{}, false
	}
	latest := assessments[0]
	for _, a := range assessments[1:] {
		if a.AppliedAt.After(latest.AppliedAt) {
			latest = a
			continue
		}
		if a.AppliedAt.Equal(latest.AppliedAt) && a.Seq > latest.Seq {
			latest = a
		}
	}
	return latest, true
}

// SortNewestFirst devuelve una copia ordenada por recencia sin mutar el input.
func SortNewestFirst(assessments []domain.Assessment) []domain.Assessment {
	out := make([]domain.Assessment, len(assessments))
	copy(out, assessments)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].AppliedAt.After(out[j].AppliedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}
