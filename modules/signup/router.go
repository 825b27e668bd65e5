package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formkit-dev/formkit/binder"
	"github.com/formkit-dev/formkit/handler"
	"github.com/formkit-dev/formkit/pkg/form"
)

// Handle returns the module router, mountable under any prefix:
//
//	r := chi.NewRouter()
//	r.Mount("/signup", signupSvc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	if s.views != nil && s.views.SignupPage != nil {
		r.Get("/", handler.Wrap(
			handler.HandlerFunc[handler.Context, struct{}](s.page),
		))
	}
	r.Post("/", handler.Wrap(
		handler.HandlerFunc[handler.Context, struct{}](s.submit),
	))

	return r
}

func (s *Service) page(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(s.views.SignupPage(SignupPageParams{}))
}

// submit works from the raw request snapshot rather than a bound struct so
// the form engine sees the union of body and query values, files included.
func (s *Service) submit(ctx handler.Context, _ struct{}) handler.Response {
	input, err := binder.Snapshot(ctx.Request())
	if err != nil {
		return s.failure(ctx, nil, handler.ErrBadRequest)
	}

	user, err := s.Signup(ctx, input)
	if err != nil {
		if IsEmailTaken(err) {
			err = handler.ErrConflict
		}
		return s.failure(ctx, input, err)
	}

	if s.wantsHTML(ctx.Request()) {
		return handler.Redirect(s.cfg.SuccessURL)
	}
	return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
}

// failure renders an error response: the signup page re-rendered with the
// submitted values and field failures for HTML clients, the structured JSON
// envelope otherwise.
func (s *Service) failure(ctx handler.Context, values form.Input, err error) handler.Response {
	if s.wantsHTML(ctx.Request()) {
		detail, status := handler.ErrorStatus(err)
		return handler.TemplWithStatus(s.views.SignupPage(SignupPageParams{
			Values: values,
			Errors: detail.Fields,
		}), status)
	}
	return handler.JSONError(err)
}

func (s *Service) wantsHTML(r *http.Request) bool {
	return s.views != nil && s.views.SignupPage != nil && !handler.PrefersJSON(r)
}
