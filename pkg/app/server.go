package app

import (
	"context"
	"fmt"
	"os"

	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/internal/server"
	"github.com/yeuxouverts/shop/pkg/cache"
	"github.com/yeuxouverts/shop/pkg/database"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/storage"
)

// Serve connects every backing service, auto-migrates the models and
// serves HTTP on APP_PORT until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if err := bootDB(); err != nil {
		return err
	}
	logger.Setup(config.AppEnv(), os.Stdout)

	if config.SessionDriver() == "redis" {
		if err := cache.Connect(ctx); err != nil {
			return err
		}
		defer cache.Close()
	}

	if err := storage.Connect(ctx); err != nil {
		return err
	}

	if len(a.models) > 0 {
		if err := database.DB.WithContext(ctx).AutoMigrate(a.models...); err != nil {
			return fmt.Errorf("app: auto-migrate: %w", err)
		}
	}

	store, err := SessionStore()
	if err != nil {
		return err
	}

	return server.Start(ctx, ":"+config.AppPort(), a.Handler(store))
}
