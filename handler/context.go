package handler

import (
	"context"
	"net/http"
	"time"
)

// Context wraps http.Request and http.ResponseWriter with context.Context.
// It embeds the request's context so handlers can pass it straight into
// blocking calls and asynchronous validation rules.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext creates a Context from an HTTP request and response writer.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{w: w, r: r}
}

type httpContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *httpContext) Request() *http.Request                { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter   { return c.w }
func (c *httpContext) Deadline() (deadline time.Time, ok bool) { return c.r.Context().Deadline() }
func (c *httpContext) Done() <-chan struct{}                  { return c.r.Context().Done() }
func (c *httpContext) Err() error                             { return c.r.Context().Err() }
func (c *httpContext) Value(key any) any                      { return c.r.Context().Value(key) }

// ContextKey provides type-safe context keys to prevent collisions. Create
// them as package-level variables.
type ContextKey struct{ name string }

func (c *ContextKey) String() string { return c.name }

// NewContextKey creates a context key; the name should be unique within the
// application.
func NewContextKey(name string) *ContextKey {
	return &ContextKey{name}
}

// ContextValue retrieves a typed value from the context, returning the zero
// value of T when the key is absent or holds a different type.
func ContextValue[T any](ctx context.Context, key any) T {
	val, _ := ctx.Value(key).(T)
	return val
}

// ContextValueOK is ContextValue with an ok bool, distinguishing a missing
// key from a stored zero value.
func ContextValueOK[T any](ctx context.Context, key any) (T, bool) {
	val, ok := ctx.Value(key).(T)
	return val, ok
}
