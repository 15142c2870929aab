package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) error
	GetByID(ctx context.Context, id string) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Update(ctx context.Context, team domain.Team) error
}

type PgTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgTeamRepository(pool *pgxpool.Pool) *PgTeamRepository {
	return &PgTeamRepository{pool: pool}
}

func (r *PgTeamRepository) Create(ctx context.Context, team domain.Team) error {
	const query = `
		INSERT INTO teams (id, name, manager_id, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
	`
	_, err := r.pool.Exec(ctx, query,
		team.ID,
		team.Name,
		team.ManagerID,
		team.CreatedAt,
	)
	return err
}

func (r *PgTeamRepository) GetByID(ctx context.Context, id string) (domain.Team, error) {
	const query = `
		SELECT id, name, COALESCE(manager_id, ''), created_at
		FROM teams
		WHERE id = $1
	`
	var t domain.Team
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.ManagerID,
		&t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, err
	}
	return t, err
}

func (r *PgTeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	const query = `
		SELECT id, name, COALESCE(manager_id, ''), created_at
		FROM teams
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.ManagerID, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

func (r *PgTeamRepository) Update(ctx context.Context, team domain.Team) error {
	const query = `
		UPDATE teams SET name = $2, manager_id = NULLIF($3, '') WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.ManagerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
