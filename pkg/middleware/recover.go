package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/response"
)

// ErrorPage writes a full error page for status. The app passes its view
// renderer here; nil falls back to a plain-text body.
type ErrorPage func(w http.ResponseWriter, r *http.Request, status int)

// Recovery catches any panic in downstream handlers, logs the stack trace,
// and returns a 500 Internal Server Error to the client.
//
//	r.Use(metrics.Middleware())
//	r.Use(middleware.Recovery(views.Error))
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger)
func Recovery(page ErrorPage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.WithCtx(r.Context()).Error("panic recovered",
						"error", fmt.Sprintf("%v", err),
						"stack", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
					)
					if page != nil {
						page(w, r, http.StatusInternalServerError)
						return
					}
					response.Error(w, http.StatusInternalServerError, "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
