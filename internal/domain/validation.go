package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned by job stores when a record fails field validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

// Details returns field -> message, suitable for logging.
func (e *ValidationError) Details() map[string]any {
	out := make(map[string]any, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// ValidateJobFields checks the persisted fields of a job record.
// It returns nil or a *ValidationError listing every failing field.
func ValidateJobFields(company, position string, status JobStatus) error {
	var fields []FieldError
	switch {
	case company == "":
		fields = append(fields, FieldError{Field: "company", Message: "Please provide company name"})
	case utf8.RuneCountInString(company) > MaxCompanyLength:
		fields = append(fields, FieldError{Field: "company", Message: fmt.Sprintf("Company name cannot exceed %d characters", MaxCompanyLength)})
	}
	switch {
	case position == "":
		fields = append(fields, FieldError{Field: "position", Message: "Please provide position"})
	case utf8.RuneCountInString(position) > MaxPositionLength:
		fields = append(fields, FieldError{Field: "position", Message: fmt.Sprintf("Position cannot exceed %d characters", MaxPositionLength)})
	}
	if !status.Valid() {
		fields = append(fields, FieldError{Field: "status", Message: fmt.Sprintf("'%s' is not a valid status", status)})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
