// Package refresh реализует обмен refresh-токена на новую пару токенов.
//
// Токен читается из cookie или из тела запроса (для клиентов без cookie).
// Предъявление устаревшего токена после успешной ротации отклоняется.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vidtube/internal/config"
	"github.com/magabrotheeeer/vidtube/internal/http/cookies"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
)

// Request — тело запроса для клиентов, не использующих cookie.
type Request struct {
	RefreshToken string `json:"refresh_token"`
}

// Service описывает интерфейс ротации refresh-токена.
type Service interface {
	Refresh(ctx context.Context, presented string) (*authservice.TokenPair, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
	jwtCfg  config.JWTToken
	secure  bool
}

func New(log *slog.Logger, service Service, jwtCfg config.JWTToken, secure bool) *Handler {
	return &Handler{
		log:     log,
		service: service,
		jwtCfg:  jwtCfg,
		secure:  secure,
	}
}

// ServeHTTP godoc
// @Summary Обновление пары токенов
// @Description Обменивает refresh-токен (cookie или тело запроса) на новую пару. Старый refresh-токен после обмена недействителен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]any "Новая пара токенов"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /refresh-token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	presented := ""
	if c, err := r.Cookie(cookies.RefreshToken); err == nil && c.Value != "" {
		presented = c.Value
	} else {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			presented = req.RefreshToken
		}
	}
	if presented == "" {
		log.Error("refresh token is missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("refresh token is required"))
		return
	}

	pair, err := h.service.Refresh(r.Context(), presented)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidToken) {
			log.Error("invalid refresh token", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid refresh token"))
			return
		}
		log.Error("refresh failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to refresh token"))
		return
	}

	cookies.SetPair(w, pair.AccessToken, pair.RefreshToken,
		h.jwtCfg.AccessTokenTTL, h.jwtCfg.RefreshTokenTTL, h.secure)

	log.Info("token pair rotated")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}))
}
