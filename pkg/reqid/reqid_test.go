package reqid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, header string) (ctxID string, rec *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(Header, header)
	}
	rec = httptest.NewRecorder()
	Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = FromCtx(r.Context())
	})).ServeHTTP(rec, req)
	return ctxID, rec
}

func TestMiddlewareGeneratesUUID(t *testing.T) {
	id, rec := capture(t, "")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, rec.Header().Get(Header))
}

func TestMiddlewareHonoursUpstreamID(t *testing.T) {
	id, rec := capture(t, "edge-42")
	assert.Equal(t, "edge-42", id)
	assert.Equal(t, "edge-42", rec.Header().Get(Header))
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	id, _ := capture(t, strings.Repeat("x", 500))
	assert.Len(t, id, 36)
}

func TestMiddlewareReplacesUnprintableID(t *testing.T) {
	for _, bad := range []string{"a b", "line\nbreak", "tab\tid", "ñandú"} {
		id, rec := capture(t, bad)
		assert.NotEqual(t, bad, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err, bad)
		assert.Equal(t, id, rec.Header().Get(Header))
	}
}
