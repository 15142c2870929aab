package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salus-lms/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateAdminFields(ctx context.Context, id, displayName, role, cargoID, teamID string) error
	UpdateOTP(ctx context.Context, id, codeHash string, expiresAt time.Time) error
	VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, display_name, role, cargo_id, team_id, password_hash, email_verified_at, otp_code_hash, otp_expires_at, created_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, display_name, role, cargo_id, team_id, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.Role,
		user.CargoID,
		user.TeamID,
		user.PasswordHash,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *PgUserRepository) scanOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	var cargoID, teamID, passwordHash, otpHash *string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.Role,
		&cargoID,
		&teamID,
		&passwordHash,
		&u.EmailVerifiedAt,
		&otpHash,
		&u.OtpExpiresAt,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	if cargoID != nil {
		u.CargoID = *cargoID
	}
	if teamID != nil {
		u.TeamID = *teamID
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if otpHash != nil {
		u.OtpCodeHash = *otpHash
	}
	return u, err
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var cargoID, teamID, passwordHash, otpHash *string
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.DisplayName,
			&u.Role,
			&cargoID,
			&teamID,
			&passwordHash,
			&u.EmailVerifiedAt,
			&otpHash,
			&u.OtpExpiresAt,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		if cargoID != nil {
			u.CargoID = *cargoID
		}
		if teamID != nil {
			u.TeamID = *teamID
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *PgUserRepository) UpdateAdminFields(ctx context.Context, id, displayName, role, cargoID, teamID string) error {
	const query = `
		UPDATE users
		SET display_name = $2, role = $3, cargo_id = NULLIF($4, ''), team_id = NULLIF($5, '')
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, displayName, role, cargoID, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) UpdateOTP(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	const query = `UPDATE users SET otp_code_hash = $2, otp_expires_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, codeHash, expiresAt)
	return err
}

func (r *PgUserRepository) VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error {
	const query = `UPDATE users SET email_verified_at = $2, otp_code_hash = NULL, otp_expires_at = NULL WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, verifiedAt)
	return err
}
