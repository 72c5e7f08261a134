package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = fstest.MapFS{
	"layout.html": {Data: []byte(`<title>{{block "title" .}}shop{{end}}</title><main>{{block "content" .}}{{end}}</main>`)},
	"index.html":  {Data: []byte(`{{define "title"}}Inicio{{end}}{{define "content"}}<p>{{.Name}}</p>{{end}}`)},
	"other.html":  {Data: []byte(`{{define "content"}}{{deref .Missing}}|{{.Bad.Field}}{{end}}`)},
}

func TestRenderUsesLayout(t *testing.T) {
	r, err := New(pages, nil)
	require.NoError(t, err)
	assert.True(t, r.Has("index.html"))
	assert.False(t, r.Has("layout.html"))

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "index.html", map[string]string{"Name": "<b>Ana</b>"}))

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<title>Inicio</title><main><p>&lt;b&gt;Ana&lt;/b&gt;</p></main>", rec.Body.String())
}

func TestPagesDoNotLeakBlocks(t *testing.T) {
	r, err := New(pages, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "other.html", struct {
		Missing *string
		Bad     map[string]string
	}{})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "<title>shop</title>")
}

func TestRenderFailureWritesNothing(t *testing.T) {
	r, err := New(pages, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "other.html", 42)
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())

	assert.Error(t, r.Render(rec, http.StatusOK, "nope.html", nil))
}
