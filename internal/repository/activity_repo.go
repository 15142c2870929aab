package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

// ActivityRepository guarda eventos de acceso. Append-only: no hay update ni delete.
type ActivityRepository interface {
	Append(ctx context.Context, event domain.ActivityEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error)
	DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyAccess, error)
}

type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

func (r *PgActivityRepository) Append(ctx context.Context, event domain.ActivityEvent) error {
	const query = `
		INSERT INTO activity_events (id, user_id, kind, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Kind,
		event.CreatedAt,
	)
	return err
}

func (r *PgActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, user_id, kind, created_at
		FROM activity_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ActivityEvent
	for rows.Next() {
		var e domain.ActivityEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// DailyCounts agrega logins por dia para el grafico de accesos.
func (r *PgActivityRepository) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyAccess, error) {
	const query = `
		SELECT date_trunc('day', created_at) AS day, COUNT(*)
		FROM activity_events
		WHERE kind = 'login' AND created_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []domain.DailyAccess
	for rows.Next() {
		var d domain.DailyAccess
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		series = append(series, d)
	}

	return series, rows.Err()
}
