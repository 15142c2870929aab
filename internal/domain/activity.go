package domain

import "time"

const (
	ActivityLogin  = "login"
	ActivityLogout = "logout"
)

// ActivityEvent es una entrada append-only del log de accesos.
type ActivityEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyAccess es un punto de la serie para el grafico de accesos del admin.
type DailyAccess struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}
