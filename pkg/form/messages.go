package form

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Messages maps rule names to message templates. Templates use ${key}
// placeholders resolved from the rule's message attributes; ${label} is
// always available. Placeholders without a matching attribute render empty.
type Messages map[string]string

// defaultMessages is the built-in English message table. Callers override
// entries per Service via WithMessages; the table itself is never mutated.
var defaultMessages = Messages{
	"required":      "The ${label} field is required.",
	"email":         "The ${label} must be a valid email address.",
	"accepted":      "The ${label} must be accepted.",
	"date":          "The ${label} is not a valid date.",
	"after":         "The ${label} must be a date after ${date}.",
	"afterOrEqual":  "The ${label} must be a date after or equal to ${date}.",
	"before":        "The ${label} must be a date before ${date}.",
	"beforeOrEqual": "The ${label} must be a date before or equal to ${date}.",
	"alpha":         "The ${label} may only contain letters.",
	"alphaDash":     "The ${label} may only contain letters, numbers, dashes and underscores.",
	"alphaNum":      "The ${label} may only contain letters and numbers.",
	"array":         "The ${label} must be an array.",
	"minLen":        "The ${label} must be at least ${min} characters.",
	"maxLen":        "The ${label} may not be longer than ${max} characters.",
	"matches":       "The ${label} format is invalid.",
	"in":            "The selected ${label} is invalid.",
}

// genericMessage is used when a rule has neither its own template nor an
// entry in the message table.
const genericMessage = "The ${label} is invalid."

// DefaultMessages returns a copy of the built-in message table.
func DefaultMessages() Messages {
	out := make(Messages, len(defaultMessages))
	for name, tmpl := range defaultMessages {
		out[name] = tmpl
	}
	return out
}

// MessagesFromYAML parses a message table from YAML, a flat mapping of rule
// name to template:
//
//	required: "${label} darf nicht leer sein."
//	email: "${label} muss eine gültige E-Mail-Adresse sein."
func MessagesFromYAML(data []byte) (Messages, error) {
	var m Messages
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("form: parsing message table: %w", err)
	}
	return m, nil
}

// template resolves the effective template for a rule: an explicit per-rule
// override wins, then the service table, then the generic fallback.
func (m Messages) template(ruleName, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if tmpl, ok := m[ruleName]; ok {
		return tmpl
	}
	return genericMessage
}

var placeholderRe = regexp.MustCompile(`\$\{(\w+)\}`)

// renderMessage substitutes ${key} placeholders from attrs. Missing keys
// render as empty strings rather than erroring, so partial attribute sets
// are tolerated.
func renderMessage(template string, attrs map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-1]
		v, ok := attrs[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}
