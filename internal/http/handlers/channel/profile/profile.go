// Package profile реализует публичный HTTP-обработчик профиля канала.
//
// Профиль доступен без авторизации; если в запросе есть валидный
// access-токен, признак is_subscribed вычисляется для этого зрителя.
// Отсутствующий канал — это 404, а не профиль с нулевыми счётчиками.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/models"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

// Service описывает интерфейс агрегата профиля канала.
type Service interface {
	GetChannelProfile(ctx context.Context, username, viewerUID string) (*models.ChannelProfile, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль канала
// @Description Возвращает публичный профиль канала со счётчиками подписок и признаком подписки зрителя.
// @Tags Channel
// @Produce  json
// @Param username path string true "Имя канала"
// @Success 200 {object} map[string]any "Профиль канала"
// @Failure 400 {object} response.ErrorResponse "Пустое имя канала"
// @Failure 404 {object} response.ErrorResponse "Канал не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /c/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if username == "" {
		log.Error("username is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username is required"))
		return
	}

	viewerUID := ""
	if viewer, ok := middlewarectx.UserFromContext(r.Context()); ok {
		viewerUID = viewer.UID
	}

	channel, err := h.service.GetChannelProfile(r.Context(), username, viewerUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("channel not found", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("channel not found"))
			return
		}
		log.Error("failed to get channel profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get channel profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"channel": channel,
	}))
}
