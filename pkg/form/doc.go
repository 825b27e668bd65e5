// Package form implements a declarative, field-oriented validation engine
// for submitted input: rules are attached fluently to named fields, executed
// in attachment order, and failures are aggregated into a per-field error
// report with templated, overridable messages.
//
// # Architecture
//
// Three cooperating types form the engine:
//
//   - Service – the shared validation context holding the message-template
//     table and a registry of reusable named checks. Stateless with respect
//     to individual validation runs and safe to share across goroutines.
//   - Form – bound to one immutable Input snapshot; creates Fields lazily in
//     first-reference order and orchestrates a full validation pass.
//   - Field – the ordered rule set for one named field; owns the failure
//     records of its most recent Check.
//
// A Form exclusively owns its Fields. Fields hold a back-reference to the
// Form only to read the shared snapshot and service; they are never shared
// between Forms.
//
// # Usage
//
//	f := form.New(form.Input{"name": "", "email": "bad"})
//	f.Field("name").Required()
//	f.Field("email").Required().Email()
//
//	ok, err := f.Validate(ctx)
//	if err != nil {
//	    return err // a predicate itself failed; not a rule failure
//	}
//	if !ok {
//	    for field, errs := range f.Errors() {
//	        // errs carry {Rule, Message} records in attachment order
//	    }
//	}
//
// ValidateOrFail converts a failed pass into a *ValidationError that carries
// the whole failure map, ready to be translated by an HTTP error handler.
//
// # Asynchronous rules
//
// Checks that need I/O – a uniqueness lookup against a database, say – are
// attached with RuleFunc (or registered on the Service and attached with
// Use). They receive the caller's context and are awaited in place: rules
// within a field, and fields within a Form, always run strictly
// sequentially, so error output is deterministic. A predicate returning a
// non-nil error aborts the whole validation run and propagates to the
// caller; returning false records an ordinary rule failure.
//
// # Messages
//
// Every rule renders its failure message from a template with ${key}
// placeholders (${label} is always available; date comparisons add ${date}).
// The built-in English table can be overridden per Service with WithMessages
// or loaded from YAML via MessagesFromYAML. Missing placeholders render
// empty rather than failing.
package form
