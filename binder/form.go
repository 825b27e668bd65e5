package binder

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxMemory caps the in-memory portion of multipart form parsing.
const DefaultMaxMemory = 10 << 20 // 10 MB

// BindForm creates a binder for application/x-www-form-urlencoded and
// multipart/form-data bodies.
//
// Struct tags control the mapping:
//   - `form:"name"` binds the field to form value "name"
//   - `form:"-"` skips the field
//
// Supported types are string, the int/uint/float families, bool, slices of
// those for multi-value fields, and pointers for optional fields.
//
// Example:
//
//	type SignupRequest struct {
//		Name     string `form:"name"`
//		Email    string `form:"email"`
//		Terms    bool   `form:"terms"`
//		Internal string `form:"-"`
//	}
func BindForm() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType, err := requestMediaType(r)
		if err != nil {
			return fmt.Errorf("%w: expected form data", err)
		}

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			return bindValues(v, "form", r.Form, ErrInvalidForm)

		case "multipart/form-data":
			if err := parseMultipart(r, DefaultMaxMemory); err != nil {
				return err
			}
			return bindValues(v, "form", r.MultipartForm.Value, ErrInvalidForm)

		default:
			return fmt.Errorf("%w: got %s, expected form data", ErrUnsupportedMediaType, mediaType)
		}
	}
}

// requestMediaType returns the request's media type without parameters.
func requestMediaType(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return "", ErrMissingContentType
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType, nil
}

// parseMultipart parses the multipart form once; repeat calls are no-ops.
func parseMultipart(r *http.Request, maxMemory int64) error {
	if r.MultipartForm != nil {
		return nil
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}
