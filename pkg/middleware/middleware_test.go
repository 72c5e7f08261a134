package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/reqid"
	"github.com/yeuxouverts/shop/pkg/session"
	"github.com/yeuxouverts/shop/pkg/testkit"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	h := Recovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecoveryUsesErrorPage(t *testing.T) {
	var got int
	page := func(w http.ResponseWriter, _ *http.Request, status int) {
		got = status
		w.WriteHeader(status)
	}
	h := Recovery(page)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, got)
}

func TestLoggerTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup("production", &buf)
	defer logger.Setup("test", &bytes.Buffer{})

	h := reqid.Middleware()(Logger(okHandler))
	req := httptest.NewRequest(http.MethodGet, "/product", nil)
	req.Header.Set(reqid.Header, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"request_id":"rid-1"`)
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), `"path":"/product"`)
}

func TestLoggerRecordsQueryAndBytes(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup("production", &buf)
	defer logger.Setup("test", &bytes.Buffer{})

	h := reqid.Middleware()(Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hola"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product?id=7", nil))

	assert.Contains(t, buf.String(), `"query":"id=7"`)
	assert.Contains(t, buf.String(), `"bytes":4`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestLoggerQuietsStaticAssets(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup("production", &buf)
	defer logger.Setup("test", &bytes.Buffer{})

	// The production handler drops DEBUG lines.
	h := reqid.Middleware()(Logger(okHandler))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
	assert.Empty(t, buf.String())

	missing := reqid.Middleware()(Logger(http.NotFoundHandler()))
	missing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/nope.css", nil))
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2, time.Minute)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{204, 204, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitWindowResets(t *testing.T) {
	l := newLimiter(1, time.Minute)
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.allow("a"))
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0, time.Minute)(okHandler)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestCSRF(t *testing.T) {
	store := session.NewCookieStore("flask-key", time.Hour)
	var token string

	h := session.Middleware(store, session.DefaultOptions())(CSRF(nil)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			token = sess.CSRFToken()
			require.NoError(t, sess.Save(r.Context(), w))
			w.WriteHeader(http.StatusOK)
		})))

	// GET issues the token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	issued := token

	post := func(form url.Values) int {
		req := testkit.PostForm("/contact", form)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, post(url.Values{"name": {"Ana"}}))
	assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFField: {"forged"}}))
	assert.Equal(t, http.StatusOK, post(url.Values{CSRFField: {issued}}))
}
