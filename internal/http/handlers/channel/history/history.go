package history

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/models"
)

// Service описывает интерфейс чтения истории просмотров.
type Service interface {
	GetWatchHistory(ctx context.Context, userUID string) ([]models.WatchEntry, error)
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
// @Summary История просмотров
// @Description Возвращает историю просмотров пользователя в порядке просмотров с данными владельцев видео.
// @Tags Channel
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "История просмотров"
// @Failure 401 {object} response.ErrorResponse "Нет авторизации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.history"

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

	entries, err := h.service.GetWatchHistory(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to get watch history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get watch history"))
		return
	}

	log.Info("watch history fetched", slog.Int("count", len(entries)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"history_count": len(entries),
		"history":       entries,
	}))
}
