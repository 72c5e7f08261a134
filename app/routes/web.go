// Package routes wires the storefront's controllers onto the router.
package routes

import (
	"net/http"

	"github.com/yeuxouverts/shop/app/controllers"
	appmw "github.com/yeuxouverts/shop/app/middleware"
	"github.com/yeuxouverts/shop/app/repositories"
	"github.com/yeuxouverts/shop/app/services"
	"github.com/yeuxouverts/shop/app/views"
	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/pkg/database"
	"github.com/yeuxouverts/shop/pkg/mail"
	"github.com/yeuxouverts/shop/pkg/router"
	"github.com/yeuxouverts/shop/pkg/storage"
	"github.com/yeuxouverts/shop/pkg/view"
	"gorm.io/gorm"
)

// Deps are the outside resources the storefront talks to. Zero fields are
// filled from the global connections and config when Register runs.
type Deps struct {
	DB        *gorm.DB
	Mailer    mail.Mailer
	Inbox     string
	Disk      func() storage.Disk
	StaticDir string
}

// Web owns the storefront routes. Its Error method renders the shared
// error page and is safe to hand to middleware before Register runs.
type Web struct {
	deps Deps
	base controllers.Base
}

func NewWeb(deps Deps) *Web {
	return &Web{deps: deps}
}

// Error renders the error page for status.
func (web *Web) Error(w http.ResponseWriter, r *http.Request, status int) {
	web.base.Error(w, r, status)
}

// Register parses the templates and mounts every storefront route on r.
// It panics if the embedded templates do not parse.
//
// Create, edit and delete sit behind AdminOnly; delete is guarded as well
// even though only the two form routes strictly need it.
func (web *Web) Register(r *router.Router) {
	d := web.deps
	if d.DB == nil {
		d.DB = database.DB
	}
	if d.Mailer == nil {
		d.Mailer = mail.NewSMTPMailer(mail.DefaultSMTP())
	}
	if d.Inbox == "" {
		d.Inbox = config.MailAddress()
	}
	if d.StaticDir == "" {
		d.StaticDir = config.StorageLocalRoot()
	}

	url := func(name string, params map[string]string) string { return r.MustURL(name, params) }
	renderer, err := view.New(views.FS, controllers.Funcs(url))
	if err != nil {
		panic(err)
	}
	web.base = controllers.NewBase(renderer, url)

	users := repositories.NewUserRepository(d.DB)
	products := repositories.NewProductRepository(d.DB)

	home := controllers.NewHomeController(web.base, products)
	product := controllers.NewProductController(web.base, products)
	contact := controllers.NewContactController(web.base, services.NewContactService(d.Mailer, d.Inbox))
	authc := controllers.NewAuthController(web.base, services.NewAuthService(users))
	policy := controllers.NewPolicyController(web.base, d.Disk)

	r.Use(appmw.LoadUser(users))
	r.NotFound(web.base.NotFound)
	r.MethodNotAllowed(web.base.MethodNotAllowed)

	getPost := []string{http.MethodGet, http.MethodPost}

	r.Get("/", "home", home.Index)
	r.Match(getPost, "/contact", "contact", contact.Contact)
	r.Get("/product", "product.show", product.Show)
	r.Get("/policies", "policies", policy.Show)

	r.Match(getPost, "/login", "login", authc.Login)
	r.Get("/logout", "logout", authc.Logout)
	r.Match(getPost, "/registro", "register", authc.Register)

	// Catalog management is for the admin (user 1) only. The delete route
	// is guarded too, so an anonymous delete of a missing id answers 403
	// rather than 404.
	admin := r.Group("/", appmw.AdminOnly(web.Error))
	admin.Match(getPost, "/add-product", "product.create", product.Create)
	admin.Match(getPost, "/edit-product/{id}", "product.edit", product.Edit)
	admin.Get("/delete/{id}", "product.delete", product.Delete)

	r.Mount("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir))))
}
