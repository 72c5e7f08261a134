package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// shop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return application().Migrate(cmd.OutOrStdout())
	},
}

// shop migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return application().Rollback(cmd.OutOrStdout())
	},
}

// shop migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return application().MigrateStatus(cmd.OutOrStdout())
	},
}

// shop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin user and demo products",
	Long:  "Creates the first (admin) user from ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD, then a demo catalog. Each seeder skips tables that already hold rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return application().Seed(cmd.Context(), cmd.OutOrStdout())
	},
}
