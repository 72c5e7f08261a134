package middleware

import (
	"net/http"

	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/response"
	"github.com/yeuxouverts/shop/pkg/session"
)

const (
	// CSRFField is the hidden form input every POST form carries.
	CSRFField = "csrf_token"
	// CSRFHeader is accepted instead of the field for scripted requests.
	CSRFHeader = "X-CSRF-Token"
)

// CSRF rejects state-changing requests whose token does not match the one
// stored in the session. session.Middleware must run first.
func CSRF(page ErrorPage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}

			sent := r.Header.Get(CSRFHeader)
			if sent == "" {
				sent = r.PostFormValue(CSRFField)
			}

			if !session.FromCtx(r).VerifyCSRF(sent) {
				logger.WithCtx(r.Context()).Warn("csrf token mismatch", "path", r.URL.Path)
				if page != nil {
					page(w, r, http.StatusForbidden)
					return
				}
				response.Forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
