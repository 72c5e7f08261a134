// Package response holds the last-resort writers used when a page cannot
// be rendered through the view layer.
package response

import (
	"net/http"
)

// Error sends a plain-text error response.
func Error(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	http.Error(w, message, status)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "")
}

// TooManyRequests sends a 429.
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "")
}

// Redirect sends a 302 Found to url, the status browsers follow with a GET
// after a form POST.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}
