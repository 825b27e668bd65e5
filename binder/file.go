package binder

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
)

var (
	fileHeaderType      = reflect.TypeOf((*multipart.FileHeader)(nil))
	fileHeaderSliceType = reflect.TypeOf([]*multipart.FileHeader(nil))
)

// BindFile creates a binder that populates fields tagged `file:"name"` from
// a multipart/form-data request. Non-multipart requests are skipped so the
// binder can be stacked with BindForm and BindJSON.
//
// Supported field types:
//   - *multipart.FileHeader for a single optional file
//   - []*multipart.FileHeader for multiple files
//
// Headers are passed through unread; pair with the upload package to
// validate content and persist:
//
//	type SignupRequest struct {
//		Name   string                `form:"name"`
//		Avatar *multipart.FileHeader `file:"avatar"`
//	}
func BindFile() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "multipart/form-data") {
			return nil
		}
		if err := parseMultipart(r, DefaultMaxMemory); err != nil {
			return err
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			return fmt.Errorf("%w: target must be a non-nil pointer", ErrInvalidFile)
		}
		rv = rv.Elem()
		if rv.Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a pointer to struct", ErrInvalidFile)
		}

		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}
			tag := rt.Field(i).Tag.Get("file")
			if tag == "" || tag == "-" {
				continue
			}

			headers := r.MultipartForm.File[tag]
			if len(headers) == 0 {
				continue
			}

			switch rt.Field(i).Type {
			case fileHeaderType:
				field.Set(reflect.ValueOf(headers[0]))
			case fileHeaderSliceType:
				field.Set(reflect.ValueOf(headers))
			default:
				return fmt.Errorf("%w: field %s: unsupported type %s", ErrInvalidFile, rt.Field(i).Name, rt.Field(i).Type)
			}
		}
		return nil
	}
}

// FormFile returns the first uploaded file for a field, or nil when the
// field is absent.
func FormFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	if err := parseMultipart(r, DefaultMaxMemory); err != nil {
		return nil, err
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return headers[0], nil
}
