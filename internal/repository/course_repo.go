package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"salus-lms/internal/domain"
)

type CourseRepository interface {
	Create(ctx context.Context, course domain.Course) error
	GetByID(ctx context.Context, id string) (domain.Course, error)
	// List devuelve el catalogo completo en orden estable por id.
	List(ctx context.Context) ([]domain.Course, error)
	SetEmbedding(ctx context.Context, id string, embedding pgvector.Vector) error
	SearchSimilar(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]domain.Course, error)
}

type PgCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCourseRepository(pool *pgxpool.Pool) *PgCourseRepository {
	return &PgCourseRepository{pool: pool}
}

func (r *PgCourseRepository) Create(ctx context.Context, course domain.Course) error {
	const query = `
		INSERT INTO courses (id, title, description, lessons, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Lessons,
		course.CreatedAt,
	)
	return err
}

func (r *PgCourseRepository) GetByID(ctx context.Context, id string) (domain.Course, error) {
	const query = `
		SELECT id, title, description, lessons, created_at
		FROM courses
		WHERE id = $1
	`
	var c domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Lessons,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, err
	}
	return c, err
}

func (r *PgCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	const query = `
		SELECT id, title, description, lessons, created_at
		FROM courses
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *PgCourseRepository) SetEmbedding(ctx context.Context, id string, embedding pgvector.Vector) error {
	const query = `UPDATE courses SET embedding = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, embedding)
	return err
}

func (r *PgCourseRepository) SearchSimilar(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]domain.Course, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT id, title, description, lessons, created_at
		FROM courses
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, queryEmbedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func scanCourses(rows pgx.Rows) ([]domain.Course, error) {
	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Lessons,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
