package handler

import (
	"net/http"

	"github.com/a-h/templ"
)

type templResponse struct {
	component templ.Component
	status    int
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.component.Render(r.Context(), w)
}

// Templ creates an HTML response from a templ component.
//
//	return handler.Templ(templates.SignupPage(form))
func Templ(component templ.Component) Response {
	return templResponse{component: component}
}

// TemplWithStatus renders a templ component with an explicit status code,
// e.g. re-rendering a form page as 422 after a failed validation.
func TemplWithStatus(component templ.Component, status int) Response {
	return templResponse{component: component, status: status}
}
