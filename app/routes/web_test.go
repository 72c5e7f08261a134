package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/repositories"
	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/pkg/app"
	"github.com/yeuxouverts/shop/pkg/session"
	"github.com/yeuxouverts/shop/pkg/storage"
	"github.com/yeuxouverts/shop/pkg/testkit"
)

type shop struct {
	t        *testing.T
	srv      *httptest.Server
	mailer   *testkit.Mailer
	users    *repositories.UserRepository
	products *repositories.ProductRepository
}

type browser struct {
	shop   *shop
	client *http.Client
}

func newShop(t *testing.T) *shop {
	t.Helper()
	for k, v := range map[string]string{"CSRF_ENABLED": "false", "RATE_LIMIT": "0"} {
		old := config.Get(k, "")
		config.Set(k, v)
		t.Cleanup(func() { config.Set(k, old) })
	}

	db := testkit.NewDB(t, models.All()...)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "privacidad.pdf"), []byte("%PDF-1.4 privacidad"), 0o644))

	mailer := testkit.NewMailer()
	web := NewWeb(Deps{
		DB:        db,
		Mailer:    mailer,
		Inbox:     "tienda@example.com",
		Disk:      func() storage.Disk { return storage.NewLocalDisk(dir, "/static") },
		StaticDir: dir,
	})
	h := app.New().
		ErrorPage(web.Error).
		Routes(web.Register).
		Handler(session.NewCookieStore("test-secret", time.Hour))

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &shop{
		t:        t,
		srv:      srv,
		mailer:   mailer,
		users:    repositories.NewUserRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// browser returns a client with its own cookie jar that does not follow
// redirects.
func (s *shop) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &browser{shop: s, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.shop.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.shop.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.shop.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, b.shop.srv.URL+path, nil)
	require.NoError(b.shop.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, b.shop.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.shop.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) register(name, email, password string) *http.Response {
	resp, _ := b.post("/registro", url.Values{"name": {name}, "email": {email}, "password": {password}})
	return resp
}

func (s *shop) admin() *browser {
	b := s.browser()
	require.Equal(s.t, "/", b.register("Dueña", "duena@example.com", "secreto").Header.Get("Location"))
	return b
}

func (s *shop) seedProduct(desc, img string) *models.Product {
	p := &models.Product{
		Description: desc,
		Price:       "$450",
		ImgURLOne:   img,
		Sizes:       "Ch, M",
		Materials:   "Algodón",
		Colors:      "Negro",
	}
	require.NoError(s.t, s.products.Create(context.Background(), p))
	return p
}

func productForm(desc, price, img string) url.Values {
	return url.Values{
		"description": {desc},
		"price":       {price},
		"img_url_one": {img},
		"sizes":       {"Única"},
		"materials":   {"Palma"},
		"colors":      {"Natural"},
	}
}

func TestHomeListsCatalog(t *testing.T) {
	s := newShop(t)
	s.seedProduct("Bolsa tejida", "https://cdn.example.com/bolsa.jpg")

	resp, body := s.browser().get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bolsa tejida")
	assert.Contains(t, body, "https://cdn.example.com/bolsa.jpg")
	assert.Contains(t, body, strconv.Itoa(time.Now().Year()))
	assert.NotContains(t, body, "/add-product")
}

func TestDuplicateRegistration(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()

	first := s.browser()
	resp := first.register("Ana", "ana@example.com", "uno")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	second := s.browser()
	resp = second.register("Ana", "ana@example.com", "dos")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := second.get("/login")
	assert.Contains(t, body, "Ya te has registrado con ana@example.com, por favor inicia sesión")

	// Shown once.
	_, body = second.get("/login")
	assert.NotContains(t, body, "Ya te has registrado")

	n, err := s.users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLogin(t *testing.T) {
	s := newShop(t)
	s.browser().register("Ana", "ana@example.com", "secreto")

	b := s.browser()
	resp, _ := b.post("/login", url.Values{"email": {"ana@example.com"}, "password": {"otra"}})
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, body := b.get("/login")
	assert.Contains(t, body, "La contraseña no es correcta.")

	resp, _ = b.post("/login", url.Values{"email": {"nadie@example.com"}, "password": {"secreto"}})
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, body = b.get("/login")
	assert.Contains(t, body, "La cuenta nadie@example.com no está en la base de datos, intenta de nuevo.")

	resp, _ = b.post("/login", url.Values{"email": {"ana@example.com"}, "password": {"secreto"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body = b.get("/")
	assert.Contains(t, body, "Hola, Ana")
	assert.Contains(t, body, "/logout")

	resp, _ = b.get("/logout")
	assert.Equal(t, "/", resp.Header.Get("Location"))
	_, body = b.get("/")
	assert.NotContains(t, body, "Hola, Ana")
}

func TestLoginRequiresFields(t *testing.T) {
	s := newShop(t)

	resp, body := s.browser().post("/login", url.Values{"email": {"ana@example.com"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Este campo es obligatorio.")
}

func TestAddProductIsAdminOnly(t *testing.T) {
	s := newShop(t)
	admin := s.admin()

	resp, _ := s.browser().get("/add-product")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "anonymous")

	customer := s.browser()
	customer.register("Ana", "ana@example.com", "secreto")
	resp, body := customer.get("/add-product")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "customer")
	assert.Contains(t, body, "Acceso denegado")

	resp, _ = customer.post("/add-product", productForm("Bolsa", "$1", "https://cdn.example.com/x.jpg"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = admin.get("/add-product")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Descripción del Producto")
}

func TestCreateProduct(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	admin := s.admin()

	resp, _ := admin.post("/add-product", productForm("Bolsa tejida", "$480", "https://cdn.example.com/bolsa.jpg"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	all, err := s.products.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "$480", all[0].Price)
	assert.Nil(t, all[0].ImgURLTwo)

	// Same description again: form comes back, nothing is inserted.
	resp, body := admin.post("/add-product", productForm("Bolsa tejida", "$480", "https://cdn.example.com/otra.jpg"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ya existe un producto con este valor.")

	all, err = s.products.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInvalidProductFormDoesNotMutate(t *testing.T) {
	s := newShop(t)
	admin := s.admin()

	form := productForm("Bolsa tejida", "", "https://cdn.example.com/bolsa.jpg")
	resp, body := admin.post("/add-product", form)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Este campo es obligatorio.")
	assert.Contains(t, body, "Bolsa tejida", "submitted values are kept")

	all, err := s.products.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEditProductUpdatesEveryField(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	admin := s.admin()
	p := s.seedProduct("Bolsa", "https://cdn.example.com/1.jpg")
	path := "/edit-product/" + strconv.Itoa(int(p.ID))

	resp, body := admin.get(path)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Bolsa"`)
	assert.Contains(t, body, "Guardar Cambios")

	form := url.Values{
		"description":   {"Bolsa grande"},
		"price":         {"$999"},
		"img_url_one":   {"https://cdn.example.com/1b.jpg"},
		"img_url_two":   {"https://cdn.example.com/2.jpg"},
		"img_url_three": {"https://cdn.example.com/3.jpg"},
		"sizes":         {"G"},
		"materials":     {"Piel"},
		"colors":        {"Café"},
		"other":         {"Forro interior"},
	}
	resp, _ = admin.post(path, form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	got, err := s.products.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bolsa grande", got.Description)
	assert.Equal(t, "$999", got.Price)
	assert.Equal(t, "https://cdn.example.com/1b.jpg", got.ImgURLOne)
	require.NotNil(t, got.ImgURLTwo)
	assert.Equal(t, "https://cdn.example.com/2.jpg", *got.ImgURLTwo)
	require.NotNil(t, got.ImgURLThree)
	assert.Equal(t, "https://cdn.example.com/3.jpg", *got.ImgURLThree)
	assert.Equal(t, "G", got.Sizes)
	assert.Equal(t, "Piel", got.Materials)
	assert.Equal(t, "Café", got.Colors)
	require.NotNil(t, got.Other)
	assert.Equal(t, "Forro interior", *got.Other)

	resp, _ = admin.get("/edit-product/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	s := newShop(t)
	admin := s.admin()
	p := s.seedProduct("Bolsa", "https://cdn.example.com/1.jpg")

	resp, _ := admin.get("/delete/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The guard runs before the lookup.
	resp, _ = s.browser().get("/delete/999")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.browser().get("/delete/" + strconv.Itoa(int(p.ID)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = admin.get("/delete/" + strconv.Itoa(int(p.ID)))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, err := s.products.Find(context.Background(), p.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, body := admin.get("/")
	assert.NotContains(t, body, "https://cdn.example.com/1.jpg")
}

func TestShowProduct(t *testing.T) {
	s := newShop(t)
	p := s.seedProduct("Rebozo", "https://cdn.example.com/r1.jpg")
	three := "https://cdn.example.com/r3.jpg"
	other := "Hecho a mano en Oaxaca"
	p.ImgURLThree = &three
	p.Other = &other
	require.NoError(t, s.products.Update(context.Background(), p))

	b := s.browser()
	resp, body := b.get("/product?id=" + strconv.Itoa(int(p.ID)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Rebozo")
	assert.Contains(t, body, "https://cdn.example.com/r1.jpg")
	assert.Contains(t, body, three)
	assert.Equal(t, 2, strings.Count(body, "<img "))
	assert.Contains(t, body, other)

	for _, q := range []string{"", "?id=abc", "?id=999", "?id=-1"} {
		resp, _ = b.get("/product" + q)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, q)
	}
}

func TestContactSendsEmail(t *testing.T) {
	s := newShop(t)
	s.mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	resp, body := s.browser().post("/contact", url.Values{
		"name": {"Ana"}, "email": {"a@x.com"}, "phone": {"555"}, "message": {"Hola"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Mensaje enviado con éxito.")

	s.mailer.AssertExpectations(t)
	sent := s.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"tienda@example.com"}, sent[0].Recipients())
	for _, v := range []string{"Ana", "a@x.com", "555", "Hola"} {
		assert.Contains(t, sent[0].BodyText(), v)
	}
}

func TestContactInvalidDoesNotSend(t *testing.T) {
	s := newShop(t)

	resp, body := s.browser().post("/contact", url.Values{"name": {"Ana"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Este campo es obligatorio.")
	assert.NotContains(t, body, "Mensaje enviado con éxito.")
	s.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactSMTPFailureIs500(t *testing.T) {
	s := newShop(t)
	s.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 535 auth failed")).Once()

	resp, body := s.browser().post("/contact", url.Values{
		"name": {"Ana"}, "email": {"a@x.com"}, "phone": {"555"}, "message": {"Hola"},
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, body, "Mensaje enviado con éxito.")
}

func TestPolicies(t *testing.T) {
	s := newShop(t)
	b := s.browser()

	resp, body := b.get("/policies?doc=privacy")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 privacidad", body)

	// Known name, file not uploaded yet.
	resp, _ = b.get("/policies?doc=shipping")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = b.get("/policies?doc=../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownPathRendersErrorPage(t *testing.T) {
	s := newShop(t)

	resp, body := s.browser().get("/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Página no encontrada")
}

func TestEnglishVisitors(t *testing.T) {
	s := newShop(t)
	b := s.browser()

	req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/contact", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, body := b.do(req)

	assert.Equal(t, "en", resp.Header.Get("Content-Language"))
	assert.Contains(t, body, `lang="en"`)
}
