package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/routes"
	"github.com/yeuxouverts/shop/database/seeders"
	"github.com/yeuxouverts/shop/pkg/app"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/yeuxouverts/shop/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shop",
	Short:         "yeux ouverts storefront",
	Long:          "Runs the yeux ouverts catalog site and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// application wires the storefront into the kernel. Dependencies resolve
// lazily, after the command has connected the database.
func application() *app.Application {
	web := routes.NewWeb(routes.Deps{})
	return app.New().
		ErrorPage(web.Error).
		Routes(web.Register).
		AutoMigrate(models.All()...).
		Seeders(seeders.RunAll)
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
