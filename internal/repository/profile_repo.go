package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile domain.StaffProfile) error
	GetByUserID(ctx context.Context, userID string) (domain.StaffProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Create(ctx context.Context, profile domain.StaffProfile) error {
	const query = `
		INSERT INTO staff_profiles (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.CreatedAt,
	)
	return err
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.StaffProfile, error) {
	const query = `
		SELECT id, user_id, created_at
		FROM staff_profiles
		WHERE user_id = $1
	`
	var profile domain.StaffProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StaffProfile{}, err
	}
	return profile, err
}
