package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

// AssessmentRepository persiste la historia de evaluaciones de un perfil.
// Solo existe insert y lectura: la tabla es append-only por contrato.
type AssessmentRepository interface {
	Append(ctx context.Context, assessment domain.Assessment) (domain.Assessment, error)
	ListByProfileID(ctx context.Context, profileID string) ([]domain.Assessment, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

// Append inserta el registro y devuelve la copia con el seq asignado por la
// base. El seq es una secuencia monotona que desempata appliedAt iguales.
func (r *PgAssessmentRepository) Append(ctx context.Context, assessment domain.Assessment) (domain.Assessment, error) {
	swotJSON, err := json.Marshal(assessment.Swot)
	if err != nil {
		return domain.Assessment{}, err
	}
	pathJSON, err := json.Marshal(assessment.LearningPath)
	if err != nil {
		return domain.Assessment{}, err
	}

	const query = `
		INSERT INTO assessments (id, profile_id, swot, learning_path, responses, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq
	`
	err = r.pool.QueryRow(ctx, query,
		assessment.ID,
		assessment.ProfileID,
		swotJSON,
		pathJSON,
		assessment.Responses,
		assessment.AppliedAt,
	).Scan(&assessment.Seq)
	if err != nil {
		return domain.Assessment{}, err
	}
	return assessment, nil
}

func (r *PgAssessmentRepository) ListByProfileID(ctx context.Context, profileID string) ([]domain.Assessment, error) {
	const query = `
		SELECT id, profile_id, swot, learning_path, responses, applied_at, seq
		FROM assessments
		WHERE profile_id = $1
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []domain.Assessment
	for rows.Next() {
		var a domain.Assessment
		var swotJSON, pathJSON []byte

		if err := rows.Scan(
			&a.ID,
			&a.ProfileID,
			&swotJSON,
			&pathJSON,
			&a.Responses,
			&a.AppliedAt,
			&a.Seq,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(swotJSON, &a.Swot); err != nil {
			return nil, err
		}
		if len(pathJSON) > 0 {
			if err := json.Unmarshal(pathJSON, &a.LearningPath); err != nil {
				return nil, err
			}
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}
