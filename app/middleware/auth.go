// Package middleware holds the shop-specific request guards: who the
// caller is, and whether they may manage the catalog.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/repositories"
	"github.com/yeuxouverts/shop/pkg/logger"
	pkgmw "github.com/yeuxouverts/shop/pkg/middleware"
	"github.com/yeuxouverts/shop/pkg/response"
	"github.com/yeuxouverts/shop/pkg/session"
)

// SessionUserKey is the session key holding the authenticated user's id.
const SessionUserKey = "user_id"

type userKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

// IsAdmin reports whether the request belongs to the shop owner.
func IsAdmin(ctx context.Context) bool {
	return CurrentUser(ctx).IsAdmin()
}

// LoadUser resolves the session's user id into a *models.User. An id whose
// row no longer exists is dropped from the session and the request
// continues anonymously. session.Middleware must run first.
func LoadUser(users *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)

			id, ok := sess.GetUint(SessionUserKey)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), id)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				sess.Delete(SessionUserKey)
			case err != nil:
				logger.WithCtx(r.Context()).Error("load session user", "user_id", id, "error", err)
			default:
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly answers 403 unless the caller is the admin.
func AdminOnly(page pkgmw.ErrorPage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				logger.WithCtx(r.Context()).Warn("admin route refused", "path", r.URL.Path)
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
