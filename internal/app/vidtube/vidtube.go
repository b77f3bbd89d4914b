// Package vidtube собирает приложение: хранилища, сервисы, маршруты
// и HTTP-сервер с graceful shutdown.
package vidtube

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/vidtube/internal/cache"
	"github.com/magabrotheeeer/vidtube/internal/config"
	"github.com/magabrotheeeer/vidtube/internal/lib/jwt"
	"github.com/magabrotheeeer/vidtube/internal/migrations"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
	channelservice "github.com/magabrotheeeer/vidtube/internal/services/channel"
	"github.com/magabrotheeeer/vidtube/internal/storage/media"
	"github.com/magabrotheeeer/vidtube/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	mediaStore, err := media.New(ctx, cfg.MediaStore)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.AccessSecretKey, cfg.RefreshSecretKey,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	channelService := channelservice.NewChannelService(db, cacheRedis, logger)
	authService := authservice.NewAuthService(db, mediaStore, channelService, jwtMaker, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, jwtMaker, db, authService, channelService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		_ = a.cache.Db.Close()
		return err
	}
}
