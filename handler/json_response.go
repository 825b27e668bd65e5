package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/formkit-dev/formkit/pkg/form"
)

// JSONResponse is the standard JSON envelope.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail carries error information in JSON responses. For validation
// failures Fields holds the per-field rule failures keyed by field name.
type ErrorDetail struct {
	Name    string                       `json:"name"`
	Message string                       `json:"message,omitempty"`
	Fields  map[string][]form.FieldError `json:"fields,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets a custom HTTP status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta attaches metadata to the response envelope.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON creates a JSON response. Plain values render as {"data": v}; errors
// are delegated to JSONError.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
	}

	switch val := v.(type) {
	case JSONResponse:
		r.body = val
	case error:
		return JSONError(val, opts...)
	default:
		r.body.Data = v
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError creates a JSON error response. Validation errors render a 422
// with per-field failures; HTTPError keeps its status code; anything else
// becomes a 500 with the error text.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusInternalServerError,
	}
	r.body.Error, r.status = errorToDetail(err)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ErrorStatus classifies an error the way JSONError does, returning the
// detail and HTTP status without rendering. Useful for callers rendering
// their own error surface (e.g. re-rendering a form page).
func ErrorStatus(err error) (*ErrorDetail, int) {
	return errorToDetail(err)
}

func errorToDetail(err error) (*ErrorDetail, int) {
	var validationErr *form.ValidationError
	if errors.As(err, &validationErr) {
		return &ErrorDetail{
			Name:    "ValidationError",
			Message: validationErr.Message,
			Fields:  validationErr.Fields,
		}, http.StatusUnprocessableEntity
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return &ErrorDetail{
			Name:    httpErr.Key,
			Message: http.StatusText(httpErr.Code),
		}, httpErr.Code
	}

	return &ErrorDetail{
		Name:    "internal_error",
		Message: err.Error(),
	}, http.StatusInternalServerError
}
