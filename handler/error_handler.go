package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/formkit-dev/formkit/pkg/form"
	"github.com/formkit-dev/formkit/pkg/logger"
	"github.com/formkit-dev/formkit/pkg/requestid"
)

// ErrorPageParams contains data for rendering error pages.
type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorHandlerConfig configures the default error handler.
type ErrorHandlerConfig struct {
	// ErrorPage renders a full error page for clients that accept HTML.
	// When nil, errors fall back to a plain-text response.
	ErrorPage func(ErrorPageParams) templ.Component
}

// errorInfo is a classified error ready for rendering and logging.
type errorInfo struct {
	status   int
	message  string
	logLevel slog.Level
}

// classifyError maps an error onto a status and user-facing message.
// Validation errors become 422, HTTPError keeps its code, everything else
// is a 500 with a generic message.
func classifyError(err error) errorInfo {
	info := errorInfo{
		status:  http.StatusInternalServerError,
		message: "An error occurred processing your request",
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.status = httpErr.Code
		info.message = http.StatusText(httpErr.Code)
	}

	var validationErr *form.ValidationError
	if errors.As(err, &validationErr) {
		info.status = http.StatusUnprocessableEntity
		info.message = validationErr.Message
	}

	if info.status >= http.StatusInternalServerError {
		info.logLevel = slog.LevelError
	} else {
		info.logLevel = slog.LevelWarn
	}
	return info
}

// PrefersJSON reports whether the client should get a JSON error body. JSON
// requests and API clients set Accept; browsers submitting forms ask for
// text/html.
func PrefersJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	}
	for part := range strings.SplitSeq(accept, ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		switch mediaType {
		case "application/json":
			return true
		case "text/html":
			return false
		}
	}
	return false
}

func logError(log *slog.Logger, ctx Context, err error, info errorInfo) {
	log.LogAttrs(ctx.Request().Context(), info.logLevel, "request error",
		logger.Error(err),
		slog.Int("status_code", info.status),
		slog.String("method", ctx.Request().Method),
		slog.String("path", ctx.Request().URL.Path),
		slog.String("request_id", requestid.FromContext(ctx.Request().Context())),
	)
}

// NewErrorHandler creates the default error handler. Clients preferring
// JSON get the structured error envelope (validation failures include
// per-field rule messages); HTML clients get the configured error page or a
// plain-text fallback. Configure once and pass to all services.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		info := classifyError(err)
		logError(log, ctx, err, info)

		w := ctx.ResponseWriter()
		r := ctx.Request()

		if PrefersJSON(r) {
			if renderErr := JSONError(err).Render(w, r); renderErr != nil {
				log.ErrorContext(r.Context(), "failed to render error response",
					logger.Error(renderErr))
			}
			return
		}

		if cfg.ErrorPage != nil {
			page := cfg.ErrorPage(ErrorPageParams{
				Error:      info.message,
				StatusCode: info.status,
				RequestID:  requestid.FromContext(r.Context()),
				RetryURL:   r.URL.Path,
			})
			if renderErr := TemplWithStatus(page, info.status).Render(w, r); renderErr != nil {
				log.ErrorContext(r.Context(), "failed to render error page",
					logger.Error(renderErr))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		http.Error(w, info.message, info.status)
	}
}
