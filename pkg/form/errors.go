package form

import "strings"

// DefaultErrorMessage is the message a ValidationError carries unless the
// caller overrides it in ValidateOrFail.
const DefaultErrorMessage = "The given input was invalid."

// ValidationError is the raised form of a failed validation pass. It wraps
// the full per-field failure map so boundary handlers (HTTP error handlers,
// CLI reporters) can surface structured output.
type ValidationError struct {
	// Message is the human-readable summary, DefaultErrorMessage by default.
	Message string `json:"message"`
	// Fields maps field names to their failure records in rule-attachment
	// order.
	Fields map[string][]FieldError `json:"fields"`

	// order preserves field-declaration order for First-less traversal.
	order []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// First returns the first failure message recorded for a field, or an empty
// string when the field has none.
func (e *ValidationError) First(field string) string {
	if errs := e.Fields[field]; len(errs) > 0 {
		return errs[0].Message
	}
	return ""
}

// FieldNames returns failing field names in declaration order.
func (e *ValidationError) FieldNames() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Combined joins every failure message with newlines, fields in declaration
// order and rules in attachment order within each field.
func (e *ValidationError) Combined() string {
	var parts []string
	for _, field := range e.order {
		for _, fe := range e.Fields[field] {
			parts = append(parts, fe.Message)
		}
	}
	return strings.Join(parts, "\n")
}
