package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vidtube/internal/http/response"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/models"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

// maxUploadBytes ограничение на суммарный размер multipart-формы регистрации.
const maxUploadBytes = 32 << 20

// Request — входные данные для регистрации
type Request struct {
	FullName string `validate:"required,min=1,max=100"`
	Email    string `validate:"required,email"`
	Username string `validate:"required,min=3,max=50,alphanum"`
	Password string `validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in authservice.RegisterInput) (*models.PublicUser, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя по multipart-форме с обязательным аватаром и необязательной обложкой.
// @Tags Auth
// @Accept  multipart/form-data
// @Produce  json
// @Param fullName formData string true "Полное имя"
// @Param email formData string true "Email"
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Param avatar formData file true "Аватар"
// @Param coverImage formData file false "Обложка канала"
// @Success 201 {object} map[string]any "Публичный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 409 {object} response.ErrorResponse "Username или email уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Хранилище медиа недоступно"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	req := Request{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	avatarFile, avatarHeader, err := r.FormFile("avatar")
	if err != nil {
		log.Error("avatar file is missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("avatar file is required"))
		return
	}
	defer func() {
		_ = avatarFile.Close()
	}()

	in := authservice.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Avatar: authservice.Upload{
			Reader:      avatarFile,
			Size:        avatarHeader.Size,
			ContentType: avatarHeader.Header.Get("Content-Type"),
			Filename:    avatarHeader.Filename,
		},
	}

	if coverFile, coverHeader, err := r.FormFile("coverImage"); err == nil {
		defer func() {
			_ = coverFile.Close()
		}()
		in.Cover = &authservice.Upload{
			Reader:      coverFile,
			Size:        coverHeader.Size,
			ContentType: coverHeader.Header.Get("Content-Type"),
			Filename:    coverHeader.Filename,
		}
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Error("user already exists", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("user with email or username already exists"))
		case errors.Is(err, authservice.ErrUpstream):
			log.Error("media upload failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to upload media"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	log.Info("user registered", slog.String("username", user.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
