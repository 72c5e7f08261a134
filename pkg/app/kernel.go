package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/pkg/cache"
	"github.com/yeuxouverts/shop/pkg/i18n"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/metrics"
	"github.com/yeuxouverts/shop/pkg/middleware"
	"github.com/yeuxouverts/shop/pkg/reqid"
	"github.com/yeuxouverts/shop/pkg/router"
	"github.com/yeuxouverts/shop/pkg/session"
)

// ErrNoSessionSecret is returned in production when FLASK_KEY is unset.
var ErrNoSessionSecret = errors.New("app: FLASK_KEY must be set in production")

// SessionStore builds the store named by SESSION_DRIVER.
func SessionStore() (session.Store, error) {
	ttl := config.SessionTTL()

	switch config.SessionDriver() {
	case "redis":
		if err := cache.Require(); err != nil {
			return nil, fmt.Errorf("app: redis sessions: %w", err)
		}
		return session.NewRedisStore(ttl), nil
	case "cookie", "":
		secret := config.SessionSecret()
		if secret == "" {
			if config.IsProduction() {
				return nil, ErrNoSessionSecret
			}
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				return nil, err
			}
			secret = hex.EncodeToString(b)
			logger.Warn("FLASK_KEY not set: sessions will not survive a restart")
		}
		return session.NewCookieStore(secret, ttl), nil
	default:
		return nil, fmt.Errorf("app: unknown SESSION_DRIVER %q", config.SessionDriver())
	}
}

// Handler builds the HTTP handler: global middleware, the project's
// routes, then /metrics.
//
// Middleware order (outermost first):
//  1. Prometheus metrics, for accurate total latency
//  2. Recovery, so a panic still gets the error page
//  3. Request ID, before anything logs
//  4. Logger
//  5. Locale from Accept-Language
//  6. Session
//  7. Rate limiter
//  8. CSRF (CSRF_ENABLED)
func (a *Application) Handler(store session.Store) http.Handler {
	return a.router(store).Handler()
}

func (a *Application) router(store session.Store) *router.Router {
	r := router.New()

	opts := session.DefaultOptions()
	opts.TTL = config.SessionTTL()
	opts.Secure = config.IsProduction()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery(a.errorPage))
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(i18n.Middleware(config.AppLocale()))
	r.Use(session.Middleware(store, opts))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))
	if config.CSRFEnabled() {
		r.Use(middleware.CSRF(a.errorPage))
	}

	for _, fn := range a.routesFns {
		fn(r)
	}

	// No auth on the scrape endpoint; keep it off public ingress.
	r.Mount("/metrics", metrics.Handler())

	return r
}
