package domain

import "time"

// SwotResult agrupa los cuatro bloques de texto que devuelve el LLM analista.
// Los cuatro campos siempre estan presentes; un string vacio es valido pero
// nunca ausente.
type SwotResult struct {
	Strengths      string `json:"strengths"`
	Weaknesses     string `json:"weaknesses"`
	Opportunities  string `json:"opportunities"`
	Threats        string `json:"threats"`
	ProfileSummary string `json:"profile_summary,omitempty"`
}

// LearningPath es la lista ordenada de cursos recomendados, mejor primero.
// Longitud 0..5, sin duplicados, cada id existente en el catalogo.
type LearningPath []string

const MaxLearningPathLen = 5

// Assessment es el registro historico inmutable de una evaluacion completada.
// Se agrega a la historia del perfil y nunca se modifica ni se borra.
type Assessment struct {
	ID           string       `json:"id"`
	ProfileID    string       `json:"profile_id"`
	Swot         SwotResult   `json:"swot"`
	LearningPath LearningPath `json:"learning_path,omitempty"`
	// Responses guarda el cuestionario serializado tal como se envio al analista.
	Responses string    `json:"responses"`
	AppliedAt time.Time `json:"applied_at"`
	// Seq es el orden de insercion dentro del perfil; desempata appliedAt iguales.
	Seq int64 `json:"-"`
}

// StaffProfile es el agregado duenio de la historia de evaluaciones.
type StaffProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
