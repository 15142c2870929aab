package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
)

// ErrRecommendationUnavailable distingue "el servicio fallo" de "legitimamente
// no hay recomendaciones" (LearningPath vacio, que no es error).
var ErrRecommendationUnavailable = errors.New("recommendation unavailable")

// RecommendService genera la ruta de aprendizaje a partir del SWOT y el catalogo.
type RecommendService struct {
	structured *llm.StructuredClient
	logger     *zap.Logger
}

func NewRecommendService(structured *llm.StructuredClient, logger *zap.Logger) *RecommendService {
	return &RecommendService{
		structured: structured,
		logger:     logger,
	}
}

const recommendPromptTemplate = `Eres un asesor de formacion para profesionales de salud. A partir del analisis SWOT del profesional, elige del catalogo los cursos mas relevantes para su desarrollo.

Analisis SWOT:
- Fortalezas: {{strengths}}
- Debilidades: {{weaknesses}}
- Oportunidades: {{opportunities}}
- Amenazas: {{threats}}

Catalogo disponible (id | titulo | descripcion):
{{catalog}}

Devuelve SOLO un JSON con este formato:
{"recommended_course_ids": ["id1", "id2"]}

Reglas:
- Maximo 5 cursos, ordenados del mas relevante al menos relevante.
- Usa unicamente ids que aparecen en el catalogo.
- Si ningun curso es relevante, devuelve una lista vacia.`

var recommendSchema = llm.Schema{
	Fields: []llm.Field{
		// Optional: la ausencia total del campo se mapea a
		// ErrRecommendationUnavailable en el servicio, no a schema mismatch.
		{Name: "recommended_course_ids", Type: llm.FieldStringArray, MaxItems: domain.MaxLearningPathLen, Optional: true},
	},
}

// Recommend devuelve una LearningPath de largo 0..5 validada contra el catalogo.
// Catalogo vacio (o solo whitespace al formatear) corta sin llamar al LLM:
// sin contexto de catalogo el generador no puede producir ids validos.
func (s *RecommendService) Recommend(ctx context.Context, swot domain.SwotResult, courses []domain.Course) (domain.LearningPath, error) {
	formatted := FormatCatalog(courses)
	if strings.TrimSpace(formatted) == "" {
		return domain.LearningPath{}, nil
	}

	fields := map[string]string{
		"strengths":     swot.Strengths,
		"weaknesses":    swot.Weaknesses,
		"opportunities": swot.Opportunities,
		"threats":       swot.Threats,
		"catalog":       formatted,
	}

	out, err := s.structured.Generate(ctx, recommendPromptTemplate, fields, recommendSchema)
	if err != nil {
		return nil, err
	}

	ids, ok := out["recommended_course_ids"].([]string)
	if !ok {
		return nil, ErrRecommendationUnavailable
	}

	path := filterAgainstCatalog(ids, courses)
	if s.logger != nil {
		s.logger.Info("learning path generated",
			zap.Int("returned", len(ids)),
			zap.Int("kept", len(path)),
		)
	}
	return path, nil
}

// filterAgainstCatalog descarta ids que no existen en el catalogo y duplicados,
// preservando el orden de prioridad de los sobrevivientes y el tope de 5.
func filterAgainstCatalog(ids []string, courses []domain.Course) domain.LearningPath {
	known := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		known[c.ID] = struct{}{}
	}

	path := make(domain.LearningPath, 0, domain.MaxLearningPathLen)
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		path = append(path, id)
		if len(path) == domain.MaxLearningPathLen {
			break
		}
	}
	return path
}
