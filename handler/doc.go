// Package handler provides type-safe HTTP request handling for form-driven
// web applications.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response. Binding, error rendering, and context creation are
// configured per route through Wrap options:
//
//	type SignupRequest struct {
//		Name  string `form:"name"`
//		Email string `form:"email"`
//	}
//
//	func signup(ctx handler.Context, req SignupRequest) handler.Response {
//		user, err := svc.Signup(ctx, req)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(user)
//	}
//
//	r.Post("/signup", handler.Wrap(
//		handler.HandlerFunc[handler.Context, SignupRequest](signup),
//		handler.WithBinders[handler.Context, SignupRequest](binder.BindForm()),
//	))
//
// # Error Handling
//
// NewErrorHandler produces the standard error surface: clients preferring
// JSON receive a structured envelope where validation failures carry
// per-field rule messages with a 422 status, HTML clients receive a
// rendered error page (templ component) or a plain-text fallback. HTTPError
// values keep their status codes; unknown errors become 500s. All errors
// are logged with method, path, status and request id.
//
// # Response Types
//
// JSON, Templ (HTML via templ components), Redirect, RedirectBack, and
// Empty cover the usual form-flow responses. All implement the Response
// interface and may be returned from any handler.
package handler
