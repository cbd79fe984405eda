// Package server wires the BhojanBox backend together: PostgreSQL with
// embedded migrations, the optional Redis menu cache, S3 image links, the
// services, and the REST server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/dmitrijs2005/bhojanbox/internal/server/cache"
	"github.com/dmitrijs2005/bhojanbox/internal/server/config"
	"github.com/dmitrijs2005/bhojanbox/internal/server/httpapi"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bhojanbox/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *httpapi.Server
}

var (
	openDB                         = repomanager.OpenDB
	newRepositoryManager           = repomanager.NewPostgresRepositoryManager
	logOutput            io.Writer = os.Stdout
)

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, parseLevel(c.LogLevel))

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var menuCache cache.MenuCache
	if c.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "redis unavailable, menu cache disabled", "addr", c.RedisAddr, "error", err)
			_ = rdb.Close()
		} else {
			app.redis = rdb
			menuCache = cache.NewRedisCache(rdb, c.MenuCacheTTL)
		}
	}

	var images services.ImageSigner
	if c.S3Bucket != "" {
		images = services.NewS3ImageSigner(c)
	}

	menu := services.NewMenuService(db, rm, menuCache, images, logger)
	if err := menu.InvalidateCache(ctx); err != nil {
		logger.Warn(ctx, "menu cache invalidation failed", "error", err)
	}

	app.server = httpapi.NewServer(c.EndpointAddrHTTP, logger, httpapi.Services{
		Users:  services.NewUserService(db, rm, c),
		Menu:   menu,
		Carts:  services.NewCartService(db, rm),
		Orders: services.NewOrderService(db, rm, logger),
	}, c.SecretKey, c.ShutdownTimeout)

	return app, nil
}

// Run serves until ctx is cancelled and then releases the database and
// Redis connections.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer app.close()

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.db.Close()
}
