package service

import (
	"fmt"
	"strings"

	"salus-lms/internal/domain"
)

// assistantPromptInput agrupa los datos ya resueltos para armar el prompt.
// Los flags (esManager, tieneSwot) se derivan antes de componer el texto;
// el template no contiene logica condicional embebida.
type assistantPromptInput struct {
	Assistant   string
	DisplayName string
	IsManager   bool
	HasSwot     bool
	Swot        domain.SwotResult
	ContextText string
	UserMessage string
}

// buildAssistantPrompt compone el prompt del asistente con strings.Builder.
func buildAssistantPrompt(in assistantPromptInput) string {
	var sb strings.Builder

	if in.IsManager {
		sb.WriteString("Eres el asistente de analitica de una plataforma de formacion para equipos de salud. ")
		sb.WriteString("Ayudas a managers a interpretar perfiles SWOT y avances de formacion de su equipo. ")
		sb.WriteString("Tono profesional y conciso; responde con datos, no con motivacion generica.\n\n")
	} else {
		sb.WriteString("Eres el mentor virtual de una plataforma de formacion para profesionales de salud. ")
		sb.WriteString("Acompanas al profesional en su desarrollo usando su perfil SWOT y sus cursos. ")
		sb.WriteString("Tono cercano y practico; sugiere acciones concretas.\n\n")
	}

	if in.DisplayName != "" {
		sb.WriteString(fmt.Sprintf("Estas hablando con %s.\n\n", in.DisplayName))
	}

	if in.HasSwot {
		sb.WriteString("=== PERFIL SWOT VIGENTE ===\n")
		sb.WriteString(fmt.Sprintf("Fortalezas: %s\n", in.Swot.Strengths))
		sb.WriteString(fmt.Sprintf("Debilidades: %s\n", in.Swot.Weaknesses))
		sb.WriteString(fmt.Sprintf("Oportunidades: %s\n", in.Swot.Opportunities))
		sb.WriteString(fmt.Sprintf("Amenazas: %s\n\n", in.Swot.Threats))
	} else {
		sb.WriteString("El usuario todavia no tiene una evaluacion SWOT vigente. Si pregunta por su perfil, sugiere completar el cuestionario.\n\n")
	}

	if strings.TrimSpace(in.ContextText) != "" {
		sb.WriteString("=== CONVERSACION RECIENTE ===\n")
		sb.WriteString(in.ContextText)
		sb.WriteString("\n\n")
	}

	sb.WriteString("=== MENSAJE DEL USUARIO ===\n")
	sb.WriteString(fmt.Sprintf("%q\n\n", in.UserMessage))
	sb.WriteString("Responde en texto plano, sin JSON ni markdown.")

	return sb.String()
}
