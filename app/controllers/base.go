// Package controllers holds the HTTP handlers of the storefront. Handlers
// bind forms, call a repository or service, and render a page.
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yeuxouverts/shop/app/middleware"
	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/pkg/i18n"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/response"
	"github.com/yeuxouverts/shop/pkg/session"
	"github.com/yeuxouverts/shop/pkg/validate"
	"github.com/yeuxouverts/shop/pkg/view"
)

// URLFunc builds the path of a named route.
type URLFunc func(name string, params map[string]string) string

// Page is the data every template receives.
type Page struct {
	Title        string
	Lang         string
	Year         int
	User         *models.User
	IsAdmin      bool
	Flashes      []session.Flash
	CSRFToken    string
	Form         interface{}
	Errors       validate.Errors
	FormError    string
	Confirmation string
	Products     []models.Product
	Product      *models.Product
	Images       []string
	IsEdit       bool
	Status       int
	Message      string

	loc *i18n.Localizer
}

// T translates id for the visitor. Extra arguments are key/value pairs of
// template data: {{.T "nav.greeting" "Name" .User.Name}}.
func (p *Page) T(id string, kv ...interface{}) string {
	if len(kv) == 0 {
		return p.loc.T(id)
	}
	data := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return p.loc.T(id, data)
}

// FieldError is the localized message for field, or "" when it is valid.
func (p *Page) FieldError(field string) string {
	fe, ok := p.Errors[field]
	if !ok {
		return ""
	}
	msg := p.loc.T("validation."+fe.Rule, map[string]interface{}{"Param": fe.Param})
	if msg == "validation."+fe.Rule {
		return p.loc.T("validation.invalid")
	}
	return msg
}

// Base carries what every controller needs to answer a request.
type Base struct {
	views *view.Renderer
	url   URLFunc
}

func NewBase(views *view.Renderer, url URLFunc) Base {
	return Base{views: views, url: url}
}

// page collects the per-request layout data. It pops the pending flashes,
// so call it once per response.
func (b *Base) page(r *http.Request) *Page {
	sess := session.FromCtx(r)
	user := middleware.CurrentUser(r.Context())
	loc := i18n.FromCtx(r.Context())

	return &Page{
		Lang:      loc.Lang(),
		Year:      time.Now().Year(),
		User:      user,
		IsAdmin:   user.IsAdmin(),
		Flashes:   sess.Flashes(),
		CSRFToken: sess.CSRFToken(),
		loc:       loc,
	}
}

// render saves the session and writes the page. A template failure turns
// into a 500 page.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, p *Page) {
	if err := session.FromCtx(r).Save(r.Context(), w); err != nil {
		b.fail(w, r, err)
		return
	}
	if err := b.views.Render(w, status, name, p); err != nil {
		b.fail(w, r, err)
	}
}

// redirect saves the session and sends a 302 to the named route.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, name string, params map[string]string) {
	if err := session.FromCtx(r).Save(r.Context(), w); err != nil {
		b.fail(w, r, err)
		return
	}
	response.Redirect(w, r, b.url(name, params))
}

// fail logs err against the request and answers with the 500 page.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithCtx(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	b.Error(w, r, http.StatusInternalServerError)
}

// Error renders the error page for status. It satisfies
// middleware.ErrorPage so guards and recovery share the same page.
func (b *Base) Error(w http.ResponseWriter, r *http.Request, status int) {
	p := b.page(r)
	p.Status = status

	code := strconv.Itoa(status)
	p.Title = p.T("error." + code + ".title")
	p.Message = p.T("error." + code + ".body")
	if p.Title == "error."+code+".title" {
		p.Title = p.T("error.generic.title")
		p.Message = p.T("error.generic.body")
	}

	_ = session.FromCtx(r).Save(r.Context(), w)
	if b.views == nil || b.views.Render(w, status, "error.html", p) != nil {
		response.Error(w, status, p.Title)
	}
}

// badRequest answers a body that could not be parsed at all.
func (b *Base) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithCtx(r.Context()).Warn("malformed form", "path", r.URL.Path, "error", err)
	b.Error(w, r, http.StatusBadRequest)
}

// NotFound is the router's fallback handler.
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.Error(w, r, http.StatusNotFound)
}

// MethodNotAllowed is the router's 405 handler.
func (b *Base) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	b.Error(w, r, http.StatusMethodNotAllowed)
}
