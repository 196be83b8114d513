// Package validation checks raw request envelopes against the platform JSON schema.
package validation

import (
	"fmt"
	"strings"

	apperrors "unit-converter-skill/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// EnvelopeSchema is the subset of the platform request envelope the skill relies on.
const EnvelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "request"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "session": {
      "type": "object",
      "properties": {
        "new": {"type": "boolean"},
        "sessionId": {"type": "string"},
        "application": {
          "type": "object",
          "properties": {"applicationId": {"type": "string"}}
        },
        "user": {
          "type": "object",
          "properties": {"userId": {"type": "string"}}
        },
        "attributes": {"type": "object"}
      }
    },
    "request": {
      "type": "object",
      "required": ["type", "requestId", "timestamp"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "requestId": {"type": "string", "minLength": 1},
        "timestamp": {"type": "string", "format": "date-time"},
        "locale": {"type": "string"},
        "reason": {"type": "string"},
        "intent": {
          "type": "object",
          "required": ["name"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "slots": {
              "type": "object",
              "additionalProperties": {
                "type": "object",
                "properties": {
                  "name": {"type": "string"},
                  "value": {"type": "string"}
                }
              }
            }
          }
        },
        "error": {
          "type": "object",
          "properties": {
            "type": {"type": "string"},
            "message": {"type": "string"}
          }
        }
      }
    }
  }
}`

// ValidationError is one schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// EnvelopeValidator holds the compiled envelope schema. Safe for concurrent use.
type EnvelopeValidator struct {
	schema *gojsonschema.Schema
}

func NewEnvelopeValidator() (*EnvelopeValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(EnvelopeSchema))
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}
	return &EnvelopeValidator{schema: schema}, nil
}

// Check reports every violation in body. Malformed JSON yields a single error.
func (v *EnvelopeValidator) Check(body []byte) *ValidationResult {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "MALFORMED_JSON",
		}}}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// Validate returns an INVALID_ENVELOPE error when body fails the schema.
func (v *EnvelopeValidator) Validate(body []byte) error {
	res := v.Check(body)
	if res.Valid {
		return nil
	}
	msgs := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return apperrors.NewInvalidEnvelopeError(strings.Join(msgs, "; "))
}
