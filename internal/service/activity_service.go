package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
)

// ActivityService registra accesos y alimenta el grafico del admin.
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

func (s *ActivityService) RecordLogin(ctx context.Context, userID string) error {
	return s.record(ctx, userID, domain.ActivityLogin)
}

func (s *ActivityService) RecordLogout(ctx context.Context, userID string) error {
	return s.record(ctx, userID, domain.ActivityLogout)
}

func (s *ActivityService) record(ctx context.Context, userID, kind string) error {
	err := s.activityRepo.Append(ctx, domain.ActivityEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// AccessChart devuelve la serie diaria de logins de los ultimos days dias.
func (s *ActivityService) AccessChart(ctx context.Context, days int) ([]domain.DailyAccess, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.activityRepo.DailyCounts(ctx, since)
}
