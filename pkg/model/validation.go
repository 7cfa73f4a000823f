package model

import (
	"fmt"
	"strings"
)

// FieldError is a validation failure of a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when an entry is rejected by its form's rules.
// Use errors.As to recover it from a failed save.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, fmt.Sprintf("%s %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// Add appends a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// On returns the messages recorded for field.
func (v ValidationErrors) On(field string) []string {
	var messages []string
	for _, e := range v {
		if e.Field == field {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

// ByField groups the messages per field.
func (v ValidationErrors) ByField() map[string][]string {
	grouped := make(map[string][]string, len(v))
	for _, e := range v {
		grouped[e.Field] = append(grouped[e.Field], e.Message)
	}
	return grouped
}
