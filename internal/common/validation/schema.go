// Package validation checks Zeebe job variables against the input schemas
// declared in the activity registry.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/pkg/registry"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// JobValidator holds one compiled input schema per task type. It is safe for
// concurrent use once built.
type JobValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewJobValidator compiles the input schema of every registered activity.
func NewJobValidator(reg *registry.ActivityRegistry) (*JobValidator, error) {
	v := &JobValidator{schemas: map[string]*gojsonschema.Schema{}}
	if reg == nil {
		return v, nil
	}
	for _, a := range reg.Activities {
		if a.InputSchema == nil {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// Has reports whether taskType has an input schema.
func (v *JobValidator) Has(taskType string) bool {
	if v == nil {
		return false
	}
	_, ok := v.schemas[taskType]
	return ok
}

// Validate checks variables for taskType. Task types without a schema, and a
// nil validator, accept everything.
func (v *JobValidator) Validate(taskType string, variables map[string]interface{}) *ValidationResult {
	if !v.Has(taskType) {
		return &ValidationResult{Valid: true}
	}
	return validate(v.schemas[taskType], gojsonschema.NewGoLoader(variables))
}

// ValidateJSON is Validate for a raw variables document.
func (v *JobValidator) ValidateJSON(taskType, variables string) *ValidationResult {
	if !v.Has(taskType) {
		return &ValidationResult{Valid: true}
	}
	return validate(v.schemas[taskType], gojsonschema.NewStringLoader(variables))
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) *ValidationResult {
	res, err := schema.Validate(doc)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "MALFORMED_DOCUMENT",
		}}}
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, re := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Summary joins every message into one line for error details.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}
