package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/formkit-dev/formkit/pkg/form"
)

// Snapshot collects request data into a form.Input for declarative
// validation. Body values win over query parameters of the same name.
//
// The body is read according to its media type: urlencoded and multipart
// forms contribute string values (a []string when a field repeats) and
// multipart file parts contribute *multipart.FileHeader values; JSON bodies
// contribute their decoded values as-is. Requests without a body yield the
// query parameters alone.
func Snapshot(r *http.Request) (form.Input, error) {
	input := make(form.Input)
	mergeValues(input, r.URL.Query())

	if r.Body == nil || r.ContentLength == 0 {
		return input, nil
	}
	mediaType, err := requestMediaType(r)
	if err != nil {
		return input, nil
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		mergeValues(input, r.PostForm)

	case "multipart/form-data":
		if err := parseMultipart(r, DefaultMaxMemory); err != nil {
			return nil, err
		}
		mergeValues(input, url.Values(r.MultipartForm.Value))
		for name, headers := range r.MultipartForm.File {
			if len(headers) == 1 {
				input[name] = headers[0]
			} else {
				input[name] = headers
			}
		}

	case "application/json":
		body := make(map[string]any)
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return input, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		for name, value := range body {
			input[name] = value
		}

	default:
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mediaType)
	}

	return input, nil
}

// mergeValues copies url.Values into the input, flattening single values.
func mergeValues(input form.Input, values url.Values) {
	for name, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			input[name] = vals[0]
		default:
			input[name] = vals
		}
	}
}
