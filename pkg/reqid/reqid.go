// Package reqid tags every storefront request with an id that ends up in
// the X-Request-ID response header and on each log line written while the
// request is served. A visitor reporting a failed checkout-style action
// (contact form, product edit) can quote the header and the matching log
// lines are one grep away.
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the id in both directions.
const Header = "X-Request-ID"

// Upstream ids longer than this, or holding anything but printable ASCII,
// are replaced so they cannot forge log fields.
const maxLen = 128

type ctxKey struct{}

// New returns a fresh v4 UUID.
func New() string { return uuid.NewString() }

// WithValue returns a copy of ctx carrying id.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the id stored in ctx, or "".
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware reuses the id set by a reverse proxy in front of the shop or
// mints one, echoes it on the response and stores it in the context.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !usable(id) {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}

func usable(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
