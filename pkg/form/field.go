package form

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// rule is one named predicate attached to a field. Attaching a rule under an
// already-used name replaces the predicate but keeps its original position
// in the execution order.
type rule struct {
	name     string
	check    CheckFunc
	template string
	attrs    map[string]any
}

// FieldError records a single rule failure on a field.
type FieldError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Field holds the ordered rule set for one named input field and accumulates
// failure records for the most recent Check. Fields are created by
// Form.Field and must not be shared between Forms.
type Field struct {
	form     *Form
	name     string
	label    string
	order    []string
	rules    map[string]rule
	failures []FieldError
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Label returns the human-readable label used in error messages.
func (f *Field) Label() string { return f.label }

// Value returns the current snapshot value for this field.
func (f *Field) Value() any { return f.form.Value(f.name) }

// attach registers a rule, preserving the position of a rule that is being
// overwritten.
func (f *Field) attach(r rule) *Field {
	if _, exists := f.rules[r.name]; !exists {
		f.order = append(f.order, r.name)
	}
	f.rules[r.name] = r
	return f
}

// syncCheck wraps a plain predicate into a CheckFunc.
func syncCheck(fn func(value any) bool) CheckFunc {
	return func(_ context.Context, value any) (bool, error) {
		return fn(value), nil
	}
}

// Check runs every attached rule in insertion order against the field's
// snapshot value. The failure list is rebuilt on every call. Predicates run
// strictly sequentially; blocking ones are simply awaited in place. A
// predicate error aborts the check and propagates to the caller. Returns
// true when no rule failed.
func (f *Field) Check(ctx context.Context) (bool, error) {
	f.failures = nil
	value := f.Value()
	for _, name := range f.order {
		r := f.rules[name]
		ok, err := r.check(ctx, value)
		if err != nil {
			return false, fmt.Errorf("form: rule %q on field %q: %w", r.name, f.name, err)
		}
		if !ok {
			f.failures = append(f.failures, FieldError{
				Rule:    r.name,
				Message: renderMessage(f.form.svc.messages.template(r.name, r.template), f.renderAttrs(r)),
			})
		}
	}
	return len(f.failures) == 0, nil
}

// HasErrors reports whether the last Check recorded any failures.
func (f *Field) HasErrors() bool { return len(f.failures) > 0 }

// Errors returns a copy of the failure records from the last Check, in rule
// attachment order.
func (f *Field) Errors() []FieldError {
	out := make([]FieldError, len(f.failures))
	copy(out, f.failures)
	return out
}

// renderAttrs merges the field label into the rule's message attributes. The
// label is resolved at render time so message output always reflects the
// field's current label.
func (f *Field) renderAttrs(r rule) map[string]any {
	attrs := make(map[string]any, len(r.attrs)+1)
	attrs["label"] = f.label
	for k, v := range r.attrs {
		attrs[k] = v
	}
	return attrs
}

// Rule attaches a custom synchronous rule. The template may be empty to use
// a message registered for name on the Service, and attrs may be nil.
func (f *Field) Rule(name string, fn func(value any) bool, template string, attrs map[string]any) *Field {
	return f.attach(rule{name: name, check: syncCheck(fn), template: template, attrs: attrs})
}

// RuleFunc attaches a custom rule whose predicate receives the validation
// context, typically for checks that hit a database or remote service.
func (f *Field) RuleFunc(name string, fn CheckFunc, template string, attrs map[string]any) *Field {
	return f.attach(rule{name: name, check: fn, template: template, attrs: attrs})
}

// Use attaches a check previously registered on the Service under name.
// Referencing an unregistered check is a programmer error and panics.
func (f *Field) Use(name string, attrs map[string]any) *Field {
	c, ok := f.form.svc.checks[name]
	if !ok {
		panic(fmt.Errorf("form: check %q is not registered", name))
	}
	return f.attach(rule{name: name, check: c.fn, template: c.template, attrs: attrs})
}

// override picks the caller-supplied message, if any.
func override(message []string) string {
	if len(message) > 0 {
		return message[0]
	}
	return ""
}

// Required fails when the value is absent or its string representation is
// empty after removing all whitespace.
func (f *Field) Required(message ...string) *Field {
	return f.attach(rule{name: "required", check: syncCheck(isPresent), template: override(message)})
}

// Email validates against a conservative RFC 5322 subset; see isEmail.
func (f *Field) Email(message ...string) *Field {
	return f.attach(rule{name: "email", check: syncCheck(isEmail), template: override(message)})
}

// Accepted passes only for the case-insensitive string "yes", boolean true,
// or numeric 1. Notably the HTML checkbox default "on" is rejected.
func (f *Field) Accepted(message ...string) *Field {
	return f.attach(rule{name: "accepted", check: syncCheck(isAccepted), template: override(message)})
}

// Date passes when the value parses into a valid calendar date.
func (f *Field) Date(message ...string) *Field {
	return f.attach(rule{name: "date", check: syncCheck(isDate), template: override(message)})
}

// After requires the field date to be strictly later than bound. The bound
// is coerced to a date at attachment time; a malformed bound is a programmer
// error and panics.
func (f *Field) After(bound any, message ...string) *Field {
	b := mustDate(bound)
	return f.attach(rule{
		name:     "after",
		check:    syncCheck(dateCompare(func(d int) bool { return d > 0 }, b)),
		template: override(message),
		attrs:    map[string]any{"date": b.Format(dateAttrLayout)},
	})
}

// AfterOrEqual requires the field date to be later than or equal to bound.
func (f *Field) AfterOrEqual(bound any, message ...string) *Field {
	b := mustDate(bound)
	return f.attach(rule{
		name:     "afterOrEqual",
		check:    syncCheck(dateCompare(func(d int) bool { return d >= 0 }, b)),
		template: override(message),
		attrs:    map[string]any{"date": b.Format(dateAttrLayout)},
	})
}

// Before requires the field date to be strictly earlier than bound.
func (f *Field) Before(bound any, message ...string) *Field {
	b := mustDate(bound)
	return f.attach(rule{
		name:     "before",
		check:    syncCheck(dateCompare(func(d int) bool { return d < 0 }, b)),
		template: override(message),
		attrs:    map[string]any{"date": b.Format(dateAttrLayout)},
	})
}

// BeforeOrEqual requires the field date to be earlier than or equal to bound.
func (f *Field) BeforeOrEqual(bound any, message ...string) *Field {
	b := mustDate(bound)
	return f.attach(rule{
		name:     "beforeOrEqual",
		check:    syncCheck(dateCompare(func(d int) bool { return d <= 0 }, b)),
		template: override(message),
		attrs:    map[string]any{"date": b.Format(dateAttrLayout)},
	})
}

// Alpha requires the value to consist of ASCII letters only.
func (f *Field) Alpha(message ...string) *Field {
	return f.attach(rule{name: "alpha", check: syncCheck(matches(alphaRe)), template: override(message)})
}

// AlphaDash requires ASCII letters, digits, dashes, or underscores.
func (f *Field) AlphaDash(message ...string) *Field {
	return f.attach(rule{name: "alphaDash", check: syncCheck(matches(alphaDashRe)), template: override(message)})
}

// AlphaNum requires ASCII letters or digits.
func (f *Field) AlphaNum(message ...string) *Field {
	return f.attach(rule{name: "alphaNum", check: syncCheck(matches(alphaNumRe)), template: override(message)})
}

// Array requires the value to be a slice or array.
func (f *Field) Array(message ...string) *Field {
	return f.attach(rule{name: "array", check: syncCheck(isArray), template: override(message)})
}

// MinLen requires the string representation to be at least n runes long.
func (f *Field) MinLen(n int, message ...string) *Field {
	return f.attach(rule{
		name:     "minLen",
		check:    syncCheck(func(v any) bool { return v != nil && len([]rune(stringify(v))) >= n }),
		template: override(message),
		attrs:    map[string]any{"min": n},
	})
}

// MaxLen requires the string representation to be at most n runes long.
func (f *Field) MaxLen(n int, message ...string) *Field {
	return f.attach(rule{
		name:     "maxLen",
		check:    syncCheck(func(v any) bool { return v == nil || len([]rune(stringify(v))) <= n }),
		template: override(message),
		attrs:    map[string]any{"max": n},
	})
}

// Matches requires the string representation to match re.
func (f *Field) Matches(re *regexp.Regexp, message ...string) *Field {
	return f.attach(rule{
		name:     "matches",
		check:    syncCheck(func(v any) bool { return v != nil && re.MatchString(stringify(v)) }),
		template: override(message),
		attrs:    map[string]any{"pattern": re.String()},
	})
}

// In requires the string representation to equal one of the given values.
func (f *Field) In(values []string, message ...string) *Field {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return f.attach(rule{
		name: "in",
		check: syncCheck(func(v any) bool {
			if v == nil {
				return false
			}
			_, ok := allowed[stringify(v)]
			return ok
		}),
		template: override(message),
		attrs:    map[string]any{"values": strings.Join(values, ", ")},
	})
}

// deriveLabel turns a field name into a lower-cased, space-separated label:
// "firstName" and "first_name" both become "first name".
func deriveLabel(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteByte(' ')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.TrimSpace(b.String())
}
