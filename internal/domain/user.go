package domain

import "time"

// Roles de la plataforma. El staff clinico completa evaluaciones; los managers
// acceden al asistente de analitica; los admins gestionan usuarios/equipos/cargos.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"display_name,omitempty"`
	Role            string     `json:"role"`
	CargoID         string     `json:"cargo_id,omitempty"`
	TeamID          string     `json:"team_id,omitempty"`
	PasswordHash    string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	OtpCodeHash     string     `json:"-"`
	OtpExpiresAt    *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RequiresReassessment indica si el rol participa del ciclo de reevaluacion
// periodica. Los admins no completan el cuestionario.
func RequiresReassessment(role string) bool {
	return role == RoleStaff || role == RoleManager
}
