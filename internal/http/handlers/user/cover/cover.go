package cover

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/models"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
)

const maxUploadBytes = 16 << 20

// Service описывает интерфейс обновления обложки канала.
type Service interface {
	UpdateCoverImage(ctx context.Context, userUID string, upload authservice.Upload) (*models.PublicUser, error)
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
// @Summary Обновление обложки канала
// @Description Загружает новую обложку и возвращает обновлённый профиль.
// @Tags User
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param coverImage formData file true "Обложка канала"
// @Success 200 {object} map[string]any "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует"
// @Failure 401 {object} response.ErrorResponse "Нет авторизации"
// @Failure 502 {object} response.ErrorResponse "Хранилище медиа недоступно"
// @Router /cover-image [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.cover"

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

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("coverImage")
	if err != nil {
		log.Error("cover image file is missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cover image file is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	updated, err := h.service.UpdateCoverImage(r.Context(), user.UID, authservice.Upload{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	})
	if err != nil {
		if errors.Is(err, authservice.ErrUpstream) {
			log.Error("cover upload failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to upload cover image"))
			return
		}
		log.Error("failed to update cover image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update cover image"))
		return
	}

	log.Info("cover image updated", slog.String("username", updated.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": updated,
	}))
}
