// Package migrations registers the shop's schema migrations with
// pkg/migration. Import it for side effects before running the migrator.
package migrations
