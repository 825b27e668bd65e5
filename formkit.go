package formkit

import (
	"net/http"

	"github.com/formkit-dev/formkit/handler"
)

// Re-exported handler surface so applications can depend on the root
// package alone for routing glue.
type (
	Context      = handler.Context
	Response     = handler.Response
	Bind         = handler.Bind
	HTTPError    = handler.HTTPError
	JSONResponse = handler.JSONResponse
	ErrorDetail  = handler.ErrorDetail
)

// HandlerFunc is the generic typed handler; see the handler package.
type HandlerFunc[C handler.Context, R any] = handler.HandlerFunc[C, R]

// NewContext creates the default Context implementation.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return handler.NewContext(w, r)
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
func Wrap[C handler.Context, R any](h HandlerFunc[C, R], opts ...handler.WrapOption[C, R]) http.HandlerFunc {
	return handler.Wrap(h, opts...)
}

// WithBinders adds request binders that run in order.
func WithBinders[C handler.Context, R any](binders ...Bind) handler.WrapOption[C, R] {
	return handler.WithBinders[C, R](binders...)
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[C handler.Context, R any](h handler.ErrorHandler[C]) handler.WrapOption[C, R] {
	return handler.WithErrorHandler[C, R](h)
}

// Response constructors.
var (
	JSON      = handler.JSON
	JSONError = handler.JSONError
	Templ     = handler.Templ
	Redirect  = handler.Redirect
	Empty     = handler.Empty
)

// NewHTTPError creates a custom HTTP error.
func NewHTTPError(code int, key string) HTTPError {
	return handler.NewHTTPError(code, key)
}
