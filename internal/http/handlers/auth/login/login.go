// Package login реализует HTTP-обработчик для запросов аутентификации пользователей.
//
// В нём определяется структура Request для входных данных, выполняется декодирование JSON,
// проверка и валидация полей, а также делегирование операции входа AuthService.
// При успешной аутентификации пара токенов устанавливается в httpOnly cookie
// и возвращается в теле ответа; в случае ошибок формируются соответствующие HTTP-ответы.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vidtube/internal/config"
	"github.com/magabrotheeeer/vidtube/internal/http/cookies"
	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/models"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

// Request — структура входных данных для авторизации.
//
// Достаточно одного из полей email или username, пароль обязателен.
type Request struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, login, password string) (*models.PublicUser, *authservice.TokenPair, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger
	service  Service
	jwtCfg   config.JWTToken
	secure   bool
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, jwtCfg config.JWTToken, secure bool) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		jwtCfg:   jwtCfg,
		secure:   secure,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email или username и паролю. Устанавливает пару токенов в cookie и возвращает её в теле.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	loginValue := req.Email
	if loginValue == "" {
		loginValue = req.Username
	}
	if loginValue == "" {
		log.Error("email or username is required")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email or username is required"))
		return
	}

	user, pair, err := h.service.Login(r.Context(), loginValue, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, authservice.ErrInvalidCredentials):
			log.Error("invalid credentials", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		default:
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
		}
		return
	}

	cookies.SetPair(w, pair.AccessToken, pair.RefreshToken,
		h.jwtCfg.AccessTokenTTL, h.jwtCfg.RefreshTokenTTL, h.secure)

	log.Info("login success", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}))
}
