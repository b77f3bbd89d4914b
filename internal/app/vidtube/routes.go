// Package vidtube предоставляет маршруты для основного приложения.
package vidtube

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/vidtube/internal/config"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/channel/history"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/channel/profile"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/channel/subscribe"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/channel/unsubscribe"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/channel/watch"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/health"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/user/avatar"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/user/changepassword"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/user/cover"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/user/current"
	"github.com/magabrotheeeer/vidtube/internal/http/handlers/user/updateaccount"
	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
	channelservice "github.com/magabrotheeeer/vidtube/internal/services/channel"
	"github.com/magabrotheeeer/vidtube/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, jwtMaker jwt.Maker,
	db *repository.Storage, authService *authservice.AuthService, channelService *channelservice.ChannelService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	secure := cfg.IsProd()

	r.Route("/api/v1/users", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService, cfg.JWTToken, secure).ServeHTTP)
		r.Post("/refresh-token", refresh.New(logger, authService, cfg.JWTToken, secure).ServeHTTP)
		r.Get("/healthz", health.New(logger).ServeHTTP)

		// Публичный профиль канала: зритель подставляется, если токен валиден
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(jwtMaker, db, logger))
			r.Get("/c/{username}", profile.New(logger, channelService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, db, logger))
			r.Post("/logout", logout.New(logger, authService, secure).ServeHTTP)
			r.Get("/current-user", current.New(logger).ServeHTTP)
			r.Patch("/update-account", updateaccount.New(logger, authService).ServeHTTP)
			r.Post("/change-password", changepassword.New(logger, authService).ServeHTTP)
			r.Patch("/avatar", avatar.New(logger, authService).ServeHTTP)
			r.Patch("/cover-image", cover.New(logger, authService).ServeHTTP)
			r.Get("/history", history.New(logger, channelService).ServeHTTP)
			r.Post("/history/{videoId}", watch.New(logger, channelService).ServeHTTP)
			r.Post("/c/{username}/subscribe", subscribe.New(logger, channelService).ServeHTTP)
			r.Delete("/c/{username}/subscribe", unsubscribe.New(logger, channelService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
