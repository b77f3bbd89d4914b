package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vidtube/internal/http/cookies"
	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
)

// Service описывает интерфейс завершения сессии.
type Service interface {
	Logout(ctx context.Context, userUID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
	secure  bool
}

func New(log *slog.Logger, service Service, secure bool) *Handler {
	return &Handler{
		log:     log,
		service: service,
		secure:  secure,
	}
}

// ServeHTTP godoc
// @Summary Выход из аккаунта
// @Description Сбрасывает refresh-токен пользователя и очищает авторизационные cookie.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сессия завершена"
// @Failure 401 {object} response.ErrorResponse "Нет авторизации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	if err := h.service.Logout(r.Context(), user.UID); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to logout"))
		return
	}

	cookies.ClearPair(w, h.secure)

	log.Info("user logged out", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user logged out successfully",
	}))
}
