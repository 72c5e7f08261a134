package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(r.Method)) }

func TestURLSubstitutesParams(t *testing.T) {
	r := New()
	r.Get("/edit-product/{id}", "product.edit", ok)

	u, err := r.URL("product.edit", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/edit-product/7", u)

	_, err = r.URL("product.edit", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
	assert.Panics(t, func() { r.MustURL("nope", nil) })
}

func TestMatchServesEveryMethod(t *testing.T) {
	r := New()
	r.Match([]string{http.MethodGet, http.MethodPost}, "/login", "login", ok)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(m, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, m, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGroupAppliesPrefixAndMiddleware(t *testing.T) {
	r := New()
	var hits int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits++
			next.ServeHTTP(w, req)
		})
	}

	g := r.Group("/admin", mw)
	g.Get("/delete/{id}", "product.delete", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(req, "id")))
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/delete/3", nil))
	assert.Equal(t, "3", rec.Body.String())
	assert.Equal(t, 1, hits)

	path, found := r.Path("product.delete")
	assert.True(t, found)
	assert.Equal(t, "/admin/delete/{id}", path)
}

func TestRootGroupKeepsPaths(t *testing.T) {
	r := New()
	var hits int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits++
			next.ServeHTTP(w, req)
		})
	}

	g := r.Group("/", mw)
	g.Match([]string{http.MethodGet, http.MethodPost}, "/add-product", "product.create", ok)
	r.Get("/", "home", ok)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(m, "/add-product", nil))
		assert.Equal(t, m, rec.Body.String())
	}
	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 2, hits)

	path, _ := r.Path("product.create")
	assert.Equal(t, "/add-product", path)
}

func TestRoutesAreListedSorted(t *testing.T) {
	r := New()
	r.Get("/logout", "logout", ok)
	r.Get("/", "home", ok)
	r.Mount("/static/*", http.NotFoundHandler())

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/", routes[0].Path)
	assert.Equal(t, "home", routes[0].Name)
	assert.Equal(t, "/logout", routes[1].Path)
	assert.Equal(t, "/static/*", routes[2].Path)
	assert.Equal(t, []string{"*"}, routes[2].Methods)
}

func TestCustomNotFound(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no existe"))
	})
	r.Get("/", "home", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no existe", rec.Body.String())
}
