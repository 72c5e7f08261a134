// Package app assembles the shop's HTTP kernel and CLI operations from the
// pieces a project hands it.
//
//	web := routes.NewWeb(routes.Deps{})
//	application := app.New().
//	    ErrorPage(web.Error).
//	    Routes(web.Register).
//	    AutoMigrate(models.All()...).
//	    Seeders(seeders.RunAll)
//
//	application.Serve(ctx)          // shop serve
//	application.Migrate(os.Stdout)  // shop migrate
package app

import (
	"context"
	"io"

	"github.com/yeuxouverts/shop/pkg/middleware"
	"github.com/yeuxouverts/shop/pkg/router"
	"gorm.io/gorm"
)

// SeedFunc fills a database with initial rows.
type SeedFunc func(ctx context.Context, db *gorm.DB, out io.Writer) error

// Application is the central configuration object of the shop.
// Build one with New(), attach routes and models, then Serve() it.
type Application struct {
	routesFns []func(*router.Router)
	models    []interface{}
	seeders   []SeedFunc
	errorPage middleware.ErrorPage
}

// New creates an empty Application.
func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback that runs when the HTTP
// kernel is built. Callbacks run in the order they were added.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// AutoMigrate adds GORM models that are auto-migrated on server start.
func (a *Application) AutoMigrate(models ...interface{}) *Application {
	a.models = append(a.models, models...)
	return a
}

// Seeders adds seed functions run, in order, by Seed.
func (a *Application) Seeders(fns ...SeedFunc) *Application {
	a.seeders = append(a.seeders, fns...)
	return a
}

// ErrorPage sets the page used for panics, CSRF failures and rate limiting.
// Without one the kernel answers with plain text.
func (a *Application) ErrorPage(page middleware.ErrorPage) *Application {
	a.errorPage = page
	return a
}
