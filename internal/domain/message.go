package domain

import "time"

// Asistentes disponibles: mentor para staff, analitica para managers.
const (
	AssistantMentor    = "mentor"
	AssistantAnalytics = "analytics"
)

// ChatMessage es una entrada append-only de la transcripcion con un asistente.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Assistant string    `json:"assistant"`
	Content   string    `json:"content"`
	Role      string    `json:"role"` // "user" o "assistant"
	CreatedAt time.Time `json:"created_at"`
}
