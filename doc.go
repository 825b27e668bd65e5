// Package formkit is a thin, type-safe web application framework built
// around a declarative form-validation engine.
//
// The engine lives in pkg/form: forms are built over an input snapshot,
// fields declare chains of named rules (synchronous predicates or
// asynchronous checks that hit databases and other services), and
// validation aggregates every failure into per-field, per-rule messages
// rendered from ${key} templates.
//
// The surrounding framework keeps the plumbing small: generic handlers
// (handler package), request binders that also build validation input
// snapshots (binder package), a dependency container (pkg/container),
// upload storage (pkg/upload), and the usual service kit under pkg/
// (config, logger, httpserver, pg, cli, requestid).
//
// Basic usage:
//
//	type SignupRequest struct {
//		Name  string `form:"name"`
//		Email string `form:"email"`
//	}
//
//	h := formkit.HandlerFunc[formkit.Context, SignupRequest](
//		func(ctx formkit.Context, req SignupRequest) formkit.Response {
//			f := form.New(form.Input{"name": req.Name, "email": req.Email})
//			f.Field("name").Required()
//			f.Field("email").Required().Email()
//			if err := f.ValidateOrFail(ctx); err != nil {
//				return formkit.JSONError(err)
//			}
//			return formkit.JSON(map[string]string{"status": "ok"})
//		},
//	)
//
//	r := chi.NewRouter()
//	r.Post("/signup", formkit.Wrap(h,
//		formkit.WithBinders[formkit.Context, SignupRequest](binder.BindForm()),
//	))
//
// The root package re-exports the handler surface so applications can
// depend on a single import; feature modules under modules/ show the
// intended composition end to end.
package formkit
