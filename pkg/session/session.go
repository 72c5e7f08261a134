// Package session provides HTTP sessions with pluggable storage: a signed
// cookie (default) or Redis.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.NewCookieStore(secret), session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", 42)
//	sess.AddFlash("warning", "...")
//	sess.Save(w)
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	flashKey = "_flashes"
	csrfKey  = "_csrf"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "session",
		TTL:        30 * 24 * time.Hour,
		HTTPOnly:   true,
		Secure:     false, // set true in production
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Store -------------------

// Store loads and persists session data. The cookie value is opaque to the
// session itself: a signed payload for CookieStore, an id for RedisStore.
type Store interface {
	Load(ctx context.Context, cookie string) (id string, data map[string]interface{}, err error)
	Save(ctx context.Context, s *Session) (cookie string, err error)
	Delete(ctx context.Context, s *Session) error
}

// ------------------- Session -------------------

type ctxKey struct{}

// Flash is one message queued for the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	store   Store
	changed bool
	// previous id to drop from the store after Regenerate or Invalidate
	stale string
}

func newSession(store Store, opts Options) *Session {
	return &Session{id: newID(), data: map[string]interface{}{}, opts: opts, store: store}
}

// newID generates a cryptographically random 32-byte hex value.
func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	s2, ok := v.(string)
	return s2, ok
}

// GetUint is a typed convenience getter for ids.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64: // JSON numbers unmarshal as float64
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.changed = true
}

// AddFlash queues a message shown once on the next rendered page.
func (s *Session) AddFlash(category, message string) {
	list, _ := s.data[flashKey].([]interface{})
	list = append(list, map[string]interface{}{"category": category, "message": message})
	s.Set(flashKey, list)
}

// Flashes returns and clears the queued messages.
func (s *Session) Flashes() []Flash {
	list, ok := s.data[flashKey].([]interface{})
	if !ok {
		return nil
	}
	s.Delete(flashKey)

	out := make([]Flash, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		cat, _ := m["category"].(string)
		msg, _ := m["message"].(string)
		out = append(out, Flash{Category: cat, Message: msg})
	}
	return out
}

// CSRFToken returns the session's anti-forgery token, creating it on first use.
func (s *Session) CSRFToken() string {
	if tok, ok := s.GetString(csrfKey); ok && tok != "" {
		return tok
	}
	tok := newID()
	s.Set(csrfKey, tok)
	return tok
}

// VerifyCSRF reports whether sent matches the session's token. A session
// that never issued a token matches nothing.
func (s *Session) VerifyCSRF(sent string) bool {
	tok, ok := s.GetString(csrfKey)
	if !ok || tok == "" || sent == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(tok), []byte(sent)) == 1
}

// Regenerate issues a fresh id while keeping the data (call on login).
func (s *Session) Regenerate() {
	if s.stale == "" {
		s.stale = s.id
	}
	s.id = newID()
	s.changed = true
}

// Invalidate destroys the session (logout).
func (s *Session) Invalidate() {
	s.data = map[string]interface{}{}
	s.Regenerate()
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Values returns a copy of the stored data.
func (s *Session) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Save persists the session and writes the cookie to the response.
// It must run before the response headers are written.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed || s.store == nil {
		return nil
	}

	if s.stale != "" {
		old := &Session{id: s.stale}
		if err := s.store.Delete(ctx, old); err != nil {
			return err
		}
		s.stale = ""
	}

	value, err := s.store.Save(ctx, s)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// ------------------- Middleware -------------------

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
// A cookie that fails to load starts a fresh session.
func Middleware(store Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := newSession(store, opts)

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				if id, data, err := store.Load(r.Context(), cookie.Value); err == nil {
					sess.id = id
					if data != nil {
						sess.data = data
					}
				}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return newSession(nil, DefaultOptions())
}
