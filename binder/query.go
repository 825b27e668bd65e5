package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// BindQuery creates a binder for URL query parameters.
//
// Struct tags control the mapping:
//   - `query:"name"` binds the field to query parameter "name"
//   - `query:"-"` skips the field
//
// Multi-value parameters bind to slices; ?tags=go&tags=web and ?tags=go,web
// are equivalent.
func BindQuery() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}

// BindPath creates a binder for router path parameters using the provided
// extractor, e.g. chi.URLParam:
//
//	r.Get("/users/{id}", handler.Wrap(h,
//		handler.WithBinders(binder.BindPath(chi.URLParam), binder.BindQuery()),
//	))
//
// Struct tags use `path:"name"`; "-" skips the field.
func BindPath(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidPath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			return fmt.Errorf("%w: target must be a non-nil pointer", ErrInvalidPath)
		}
		rv = rv.Elem()
		if rv.Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a pointer to struct", ErrInvalidPath)
		}

		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}
			name, skip := fieldName(rt.Field(i), "path")
			if skip {
				continue
			}
			value := extractor(r, name)
			if value == "" {
				continue
			}
			if err := setField(field, rt.Field(i).Type, []string{value}); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrInvalidPath, rt.Field(i).Name, err)
			}
		}
		return nil
	}
}
