package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Course es una entrada del catalogo de formacion. Para el pipeline de
// recomendacion es dato de referencia de solo lectura.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Lessons     int       `json:"lessons"`
	CreatedAt   time.Time `json:"created_at"`
	// Embedding habilita la busqueda semantica del catalogo; puede estar vacio
	// si el curso todavia no fue indexado.
	Embedding pgvector.Vector `json:"-"`
}

// LessonProgress marca una leccion completada por un usuario.
type LessonProgress struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	LessonIndex int       `json:"lesson_index"`
	CompletedAt time.Time `json:"completed_at"`
}

// CourseProgress resume el avance de un usuario en un curso.
type CourseProgress struct {
	CourseID         string  `json:"course_id"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	Percent          float64 `json:"percent"`
}
