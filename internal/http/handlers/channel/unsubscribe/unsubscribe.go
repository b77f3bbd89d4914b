package unsubscribe

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
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

// Service описывает интерфейс отписки от канала.
type Service interface {
	Unsubscribe(ctx context.Context, subscriberUID, channelUsername string) error
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
// @Summary Отписка от канала
// @Description Отписывает текущего пользователя от канала.
// @Tags Channel
// @Produce  json
// @Security BearerAuth
// @Param username path string true "Имя канала"
// @Success 200 {object} map[string]any "Подписка удалена"
// @Failure 401 {object} response.ErrorResponse "Нет авторизации"
// @Failure 404 {object} response.ErrorResponse "Канал не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /c/{username}/subscribe [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.unsubscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.service.Unsubscribe(r.Context(), user.UID, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("channel not found", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("channel not found"))
			return
		}
		log.Error("failed to unsubscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to unsubscribe"))
		return
	}

	log.Info("unsubscribed", slog.String("channel", username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "unsubscribed successfully",
	}))
}
