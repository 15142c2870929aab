package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

type ProgressRepository interface {
	MarkComplete(ctx context.Context, progress domain.LessonProgress) error
	CountCompleted(ctx context.Context, userID, courseID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.LessonProgress, error)
}

type PgProgressRepository struct {
	pool *pgxpool.Pool
}

func NewPgProgressRepository(pool *pgxpool.Pool) *PgProgressRepository {
	return &PgProgressRepository{pool: pool}
}

// MarkComplete es idempotente: repetir una leccion ya completada no duplica filas.
func (r *PgProgressRepository) MarkComplete(ctx context.Context, progress domain.LessonProgress) error {
	const query = `
		INSERT INTO lesson_progress (id, user_id, course_id, lesson_index, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, course_id, lesson_index) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		progress.ID,
		progress.UserID,
		progress.CourseID,
		progress.LessonIndex,
		progress.CompletedAt,
	)
	return err
}

func (r *PgProgressRepository) CountCompleted(ctx context.Context, userID, courseID string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM lesson_progress
		WHERE user_id = $1 AND course_id = $2
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&count)
	return count, err
}

func (r *PgProgressRepository) ListByUser(ctx context.Context, userID string) ([]domain.LessonProgress, error) {
	const query = `
		SELECT id, user_id, course_id, lesson_index, completed_at
		FROM lesson_progress
		WHERE user_id = $1
		ORDER BY completed_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LessonProgress
	for rows.Next() {
		var p domain.LessonProgress
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.CourseID,
			&p.LessonIndex,
			&p.CompletedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, p)
	}

	return entries, rows.Err()
}
