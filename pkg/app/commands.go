package app

// Implementations for the CLI sub-commands.

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/pkg/database"
	"github.com/yeuxouverts/shop/pkg/migration"
	"github.com/yeuxouverts/shop/pkg/session"
)

// Migrate runs all pending migrations.
func (a *Application) Migrate(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	return migration.New(database.DB, out).Run()
}

// Rollback reverses the last migration batch.
func (a *Application) Rollback(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	return migration.New(database.DB, out).Rollback()
}

// MigrateStatus prints every migration and whether it has run.
func (a *Application) MigrateStatus(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	return migration.New(database.DB, out).Status()
}

// Seed runs every seeder in order and stops on the first failure.
func (a *Application) Seed(ctx context.Context, out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	if len(a.seeders) == 0 {
		fmt.Fprintln(out, "No seeders registered.")
		return nil
	}
	for _, fn := range a.seeders {
		if err := fn(ctx, database.DB, out); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "✅ Seeding complete")
	return nil
}

// RouteList prints the registered routes.
func (a *Application) RouteList(out io.Writer) error {
	r := a.router(session.NewCookieStore("route-list", 0))

	routes := r.Routes()
	if len(routes) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	for _, ri := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", strings.Join(ri.Methods, "|"), ri.Path, ri.Name)
	}
	return tw.Flush()
}

// bootDB loads config and connects to the database once.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if database.DB != nil {
		return nil
	}
	return database.Connect()
}
