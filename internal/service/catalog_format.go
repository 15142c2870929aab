package service

import (
	"fmt"
	"strings"

	"salus-lms/internal/domain"
)

// FormatCatalog renderiza el catalogo en texto plano para embeber en el prompt
// de recomendacion. Determinista: mismo input, mismos bytes. Una linea por
// curso, campos en orden fijo separados por " | ". Catalogo vacio devuelve "".
func FormatCatalog(courses []domain.Course) string {
	if len(courses) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, c := range courses {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s | %s | %s", c.ID, c.Title, c.Description))
	}
	return sb.String()
}
