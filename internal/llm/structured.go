package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch indica que la respuesta del proveedor no pudo coercionarse
// al esquema esperado. No se reintenta aca; el caller decide.
var ErrSchemaMismatch = errors.New("generation schema mismatch")

// Tipos primitivos soportados por el esquema de salida.
const (
	FieldString      = "string"
	FieldStringArray = "string_array"
	FieldEnum        = "enum"
)

// Field describe un campo esperado en la salida del LLM.
type Field struct {
	Name     string
	Type     string
	Enum     []string // valores validos cuando Type == FieldEnum
	Optional bool
	MaxItems int // tope para arrays; 0 = sin tope
}

// Schema es el contrato de salida de una llamada estructurada.
type Schema struct {
	Fields []Field
}

// StructuredClient envuelve un LLMClient con contrato tipado de request/response:
// template con placeholders nombrados, sustituciones y esquema de salida.
type StructuredClient struct {
	client LLMClient
}

func NewStructuredClient(client LLMClient) *StructuredClient {
	return &StructuredClient{client: client}
}

// RenderTemplate sustituye cada placeholder {{nombre}} por su valor.
// Los flags condicionales se derivan antes de llamar; el template no lleva logica.
func RenderTemplate(template string, fields map[string]string) string {
	out := template
	for name, value := range fields {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}

// Generate renderiza el template, llama al LLM y coerciona la respuesta al
// esquema. Cualquier campo requerido ausente o con tipo incorrecto produce
// ErrSchemaMismatch; nunca se degrada en silencio a un valor por defecto.
func (c *StructuredClient) Generate(ctx context.Context, template string, fields map[string]string, schema Schema) (map[string]any, error) {
	prompt := RenderTemplate(template, fields)

	raw, err := c.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	cleaned := cleanJSONResponse(raw)
	jsonObj := extractFirstJSONObject(cleaned)
	if jsonObj == "" {
		jsonObj = extractFirstJSONObject(raw)
	}
	if jsonObj == "" {
		return nil, fmt.Errorf("%w: no json object in response", ErrSchemaMismatch)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonObj), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	out := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		value, ok := parsed[f.Name]
		if !ok || value == nil {
			if f.Optional {
				continue
			}
			return nil, fmt.Errorf("%w: missing field %q", ErrSchemaMismatch, f.Name)
		}

		coerced, err := coerceField(f, value)
		if err != nil {
			return nil, err
		}
		out[f.Name] = coerced
	}

	return out, nil
}

func coerceField(f Field, value any) (any, error) {
	switch f.Type {
	case FieldString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a string", ErrSchemaMismatch, f.Name)
		}
		return s, nil

	case FieldStringArray:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not an array", ErrSchemaMismatch, f.Name)
		}
		strs := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q has a non-string element", ErrSchemaMismatch, f.Name)
			}
			strs = append(strs, s)
		}
		if f.MaxItems > 0 && len(strs) > f.MaxItems {
			strs = strs[:f.MaxItems]
		}
		return strs, nil

	case FieldEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a string", ErrSchemaMismatch, f.Name)
		}
		for _, allowed := range f.Enum {
			if strings.EqualFold(strings.TrimSpace(s), allowed) {
				return allowed, nil
			}
		}
		return nil, fmt.Errorf("%w: field %q value %q not in enum", ErrSchemaMismatch, f.Name, s)

	default:
		return nil, fmt.Errorf("%w: field %q has unknown type %q", ErrSchemaMismatch, f.Name, f.Type)
	}
}
