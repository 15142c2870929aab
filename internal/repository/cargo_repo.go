package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

type CargoRepository interface {
	Create(ctx context.Context, cargo domain.Cargo) error
	GetByID(ctx context.Context, id string) (domain.Cargo, error)
	List(ctx context.Context) ([]domain.Cargo, error)
}

type PgCargoRepository struct {
	pool *pgxpool.Pool
}

func NewPgCargoRepository(pool *pgxpool.Pool) *PgCargoRepository {
	return &PgCargoRepository{pool: pool}
}

func (r *PgCargoRepository) Create(ctx context.Context, cargo domain.Cargo) error {
	const query = `
		INSERT INTO cargos (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, cargo.ID, cargo.Name, cargo.CreatedAt)
	return err
}

func (r *PgCargoRepository) GetByID(ctx context.Context, id string) (domain.Cargo, error) {
	const query = `SELECT id, name, created_at FROM cargos WHERE id = $1`
	var c domain.Cargo
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cargo{}, err
	}
	return c, err
}

func (r *PgCargoRepository) List(ctx context.Context) ([]domain.Cargo, error) {
	const query = `SELECT id, name, created_at FROM cargos ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cargos []domain.Cargo
	for rows.Next() {
		var c domain.Cargo
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		cargos = append(cargos, c)
	}

	return cargos, rows.Err()
}
