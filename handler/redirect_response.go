package handler

import (
	"net/http"
	"net/url"
)

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect creates a redirect response with status 303 (See Other), the
// conventional status for POST-redirect-GET form flows.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode creates a redirect response with a specific status code.
// Valid codes are 301, 302, 303, 307 and 308.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}

type redirectBackResponse struct {
	fallback string
	code     int
}

func (r redirectBackResponse) Render(w http.ResponseWriter, req *http.Request) error {
	target := r.fallback
	if referer := req.Header.Get("Referer"); referer != "" && sameHost(referer, req) {
		target = referer
	}
	http.Redirect(w, req, target, r.code)
	return nil
}

// RedirectBack redirects to the referrer when it points at the same host,
// otherwise to the fallback URL. Uses status 303 (See Other).
func RedirectBack(fallback string) Response {
	return redirectBackResponse{fallback: fallback, code: http.StatusSeeOther}
}

// RedirectBackWithCode is RedirectBack with a specific status code.
func RedirectBackWithCode(fallback string, code int) Response {
	return redirectBackResponse{fallback: fallback, code: code}
}

// sameHost rejects cross-host referrers so the redirect cannot be used as
// an open redirect.
func sameHost(urlStr string, r *http.Request) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsed.Host == "" || parsed.Host == r.Host
}
