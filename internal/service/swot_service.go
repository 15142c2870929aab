package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
)

// SwotService convierte las respuestas del cuestionario conductual en un
// analisis SWOT usando el cliente de generacion estructurada.
type SwotService struct {
	structured *llm.StructuredClient
	logger     *zap.Logger
}

func NewSwotService(structured *llm.StructuredClient, logger *zap.Logger) *SwotService {
	return &SwotService{
		structured: structured,
		logger:     logger,
	}
}

const swotPromptTemplate = `Eres un psicologo organizacional especializado en equipos de salud. Analiza las respuestas del cuestionario conductual de un profesional y construye su analisis SWOT.

Respuestas del cuestionario:
{{responses}}

Devuelve SOLO un JSON con este formato exacto:
{
  "strengths": "texto en prosa sobre fortalezas",
  "weaknesses": "texto en prosa sobre debilidades",
  "opportunities": "texto en prosa sobre oportunidades de desarrollo",
  "threats": "texto en prosa sobre riesgos (burnout, rotacion, etc.)",
  "profile_summary": "resumen narrativo del perfil en 2-3 frases"
}

Los cuatro campos SWOT son obligatorios. Si las respuestas son escasas, escribe texto breve pero nunca omitas un campo.`

var swotSchema = llm.Schema{
	Fields: []llm.Field{
		{Name: "strengths", Type: llm.FieldString},
		{Name: "weaknesses", Type: llm.FieldString},
		{Name: "opportunities", Type: llm.FieldString},
		{Name: "threats", Type: llm.FieldString},
		{Name: "profile_summary", Type: llm.FieldString, Optional: true},
	},
}

// GenerateSwot produce el SwotResult a partir del cuestionario serializado.
// Propaga ErrSchemaMismatch sin reinterpretarlo; no reintenta ni cachea.
func (s *SwotService) GenerateSwot(ctx context.Context, responsesText string) (domain.SwotResult, error) {
	fields := map[string]string{"responses": responsesText}

	out, err := s.structured.Generate(ctx, swotPromptTemplate, fields, swotSchema)
	if err != nil {
		return domain.SwotResult{}, err
	}

	result := domain.SwotResult{
		Strengths:     out["strengths"].(string),
		Weaknesses:    out["weaknesses"].(string),
		Opportunities: out["opportunities"].(string),
		Threats:       out["threats"].(string),
	}
	if summary, ok := out["profile_summary"].(string); ok {
		result.ProfileSummary = summary
	}

	if s.logger != nil {
		s.logger.Info("swot generated", zap.Int("responses_len", len(responsesText)))
	}
	return result, nil
}

// SerializeResponses arma el texto pregunta/respuesta que se envia al analista
// y que queda guardado en el Assessment. Orden estable por identificador de
// pregunta para que el mismo input produzca siempre el mismo texto.
func SerializeResponses(responses map[string]string) string {
	keys := make([]string, 0, len(responses))
	for k := range responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("P: %s\nR: %s\n---\n", strings.TrimSpace(k), strings.TrimSpace(responses[k])))
	}
	return sb.String()
}
