package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/models"
)

// IdeaSchema mirrors the pitch service's request model. idea is checked after
// trimming and only has to be non-blank.
const IdeaSchema = `{
  "type": "object",
  "required": ["idea", "audience", "tone"],
  "properties": {
    "idea":         {"type": "string", "minLength": 1},
    "audience":     {"type": "string", "enum": ["investors", "customers", "partners"]},
    "tone":         {"type": "string", "enum": ["professional", "casual", "concise", "visionary", "enthusiastic"]},
    "use_mock_llm": {"type": "boolean"}
  },
  "additionalProperties": false
}`

// PitchDocumentSchema only requires an object. Section shapes are not pinned:
// the document decoder coerces or drops a malformed section on its own.
const PitchDocumentSchema = `{
  "type": "object"
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func compiled(schemaJSON string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[schemaJSON]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	schemaCache[schemaJSON] = s
	return s, nil
}

// Validate checks any Go value (structs are validated through their JSON form)
// against a JSON schema.
func Validate(schemaJSON string, value interface{}) (*ValidationResult, error) {
	schema, err := compiled(schemaJSON)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// ValidateIdea returns a PITCH_INVALID_IDEA error describing every violation.
func ValidateIdea(idea models.Idea) error {
	idea.Idea = strings.TrimSpace(idea.Idea)

	result, err := Validate(IdeaSchema, idea)
	if err != nil {
		return apperrors.NewInvalidIdeaError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewInvalidIdeaError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
