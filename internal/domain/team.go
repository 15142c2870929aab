package domain

import "time"

// Team agrupa staff bajo un manager.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ManagerID string    `json:"manager_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Cargo es el titulo de puesto (enfermeria, fisioterapia, etc.).
type Cargo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
