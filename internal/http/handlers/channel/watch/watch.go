package watch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

// Service описывает интерфейс добавления видео в историю просмотров.
type Service interface {
	AddWatchEntry(ctx context.Context, userUID, videoID string) error
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
// @Summary Запись в историю просмотров
// @Description Дописывает просмотренное видео в конец истории пользователя.
// @Tags Channel
// @Produce  json
// @Security BearerAuth
// @Param videoId path string true "Идентификатор видео"
// @Success 200 {object} map[string]any "Видео записано в историю"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор видео"
// @Failure 401 {object} response.ErrorResponse "Нет авторизации"
// @Failure 404 {object} response.ErrorResponse "Видео не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /history/{videoId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.watch"

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

	videoID := chi.URLParam(r, "videoId")
	if _, err := uuid.Parse(videoID); err != nil {
		log.Error("invalid video id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid video id"))
		return
	}

	if err := h.service.AddWatchEntry(r.Context(), user.UID, videoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("video not found", slog.String("video_id", videoID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("video not found"))
			return
		}
		log.Error("failed to add watch entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add watch entry"))
		return
	}

	log.Info("watch entry added", slog.String("video_id", videoID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "video added to watch history",
	}))
}
