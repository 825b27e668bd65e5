package form

import (
	"context"
)

// Input is the snapshot of submitted values a Form validates against.
// It is captured at construction and never mutated by the engine, so
// repeated Validate calls are deterministic.
type Input map[string]any

// CheckFunc is a predicate evaluated against a field value. Predicates that
// need I/O (uniqueness lookups, remote checks) receive the caller's context
// and may block; a non-nil error is treated as a fatal failure of the whole
// validation run, not as a rule failure.
type CheckFunc func(ctx context.Context, value any) (bool, error)

// Service is the shared validation context: the message-template table and
// the registry of reusable named checks. A single Service is safe to share
// across many Forms; Forms never mutate it.
type Service struct {
	messages Messages
	checks   map[string]namedCheck
}

type namedCheck struct {
	fn       CheckFunc
	template string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMessages overrides built-in message templates. Only the provided rule
// names are replaced; everything else keeps its default.
func WithMessages(m Messages) ServiceOption {
	return func(s *Service) {
		for name, tmpl := range m {
			s.messages[name] = tmpl
		}
	}
}

// WithCheck registers a reusable named check available to every Form created
// from this Service via Field.Use.
func WithCheck(name string, fn CheckFunc, template string) ServiceOption {
	return func(s *Service) {
		s.Register(name, fn, template)
	}
}

// NewService creates a validation service with the built-in message table.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		messages: DefaultMessages(),
		checks:   make(map[string]namedCheck),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds (or replaces) a reusable named check.
func (s *Service) Register(name string, fn CheckFunc, template string) {
	s.checks[name] = namedCheck{fn: fn, template: template}
}

// NewForm creates a Form bound to the given input snapshot.
func (s *Service) NewForm(input Input) *Form {
	return &Form{
		svc:    s,
		input:  input,
		fields: make(map[string]*Field),
		errors: make(map[string][]FieldError),
	}
}

// defaultService backs the package-level New for callers that don't need
// custom messages or shared checks.
var defaultService = NewService()

// New creates a Form bound to the given input snapshot using the default
// validation service.
func New(input Input) *Form {
	return defaultService.NewForm(input)
}

// Form orchestrates validation of one input snapshot. Fields are created
// lazily in first-reference order; that order also drives validation and
// error aggregation. A Form is not safe for concurrent use: rules run
// strictly sequentially within a single Validate call.
type Form struct {
	svc    *Service
	input  Input
	order  []string
	fields map[string]*Field
	errors map[string][]FieldError
}

// Field returns the rule set for the named field, creating it on first
// reference. An optional label overrides the default derived from the field
// name; it is applied only when the field is first created.
func (f *Form) Field(name string, label ...string) *Field {
	if fld, ok := f.fields[name]; ok {
		return fld
	}
	fld := &Field{
		form:  f,
		name:  name,
		label: deriveLabel(name),
		rules: make(map[string]rule),
	}
	if len(label) > 0 && label[0] != "" {
		fld.label = label[0]
	}
	f.fields[name] = fld
	f.order = append(f.order, name)
	return fld
}

// Value returns the snapshot value for a field name, or nil when absent.
func (f *Form) Value(name string) any {
	return f.input[name]
}

// Fields returns field names in first-reference order.
func (f *Form) Fields() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Validate runs every field's rule set against the snapshot, in
// first-reference order, and rebuilds the aggregate error map from scratch.
// It returns true only when no field produced errors. A predicate returning
// a non-nil error aborts the run immediately, leaving the aggregate map
// partially populated, and is returned to the caller.
func (f *Form) Validate(ctx context.Context) (bool, error) {
	f.errors = make(map[string][]FieldError, len(f.fields))
	for _, name := range f.order {
		ok, err := f.fields[name].Check(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			f.errors[name] = f.fields[name].Errors()
		}
	}
	return len(f.errors) == 0, nil
}

// ValidateOrFail runs Validate and converts an unsuccessful pass into a
// *ValidationError carrying the full per-field failure map. The error's
// message defaults to DefaultErrorMessage and can be overridden.
func (f *Form) ValidateOrFail(ctx context.Context, message ...string) error {
	ok, err := f.Validate(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	verr := &ValidationError{
		Message: DefaultErrorMessage,
		Fields:  f.Errors(),
		order:   f.failedFields(),
	}
	if len(message) > 0 && message[0] != "" {
		verr.Message = message[0]
	}
	return verr
}

// HasErrors reports whether the last Validate recorded any failures.
func (f *Form) HasErrors() bool {
	return len(f.errors) > 0
}

// Errors returns a copy of the aggregate error map from the last Validate.
func (f *Form) Errors() map[string][]FieldError {
	out := make(map[string][]FieldError, len(f.errors))
	for name, errs := range f.errors {
		cp := make([]FieldError, len(errs))
		copy(cp, errs)
		out[name] = cp
	}
	return out
}

// failedFields returns names of failing fields in declaration order.
func (f *Form) failedFields() []string {
	var out []string
	for _, name := range f.order {
		if _, ok := f.errors[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
