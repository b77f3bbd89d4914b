// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и жизненного цикла сессии: выпуск и ротация пары
// access/refresh токенов, завершение сессии, смена пароля и
// обновление профиля с медиафайлами.
package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/magabrotheeeer/vidtube/internal/lib/jwt"
	"github.com/magabrotheeeer/vidtube/internal/lib/password"
	"github.com/magabrotheeeer/vidtube/internal/lib/sl"
	"github.com/magabrotheeeer/vidtube/internal/models"
	"github.com/magabrotheeeer/vidtube/internal/storage"
	"github.com/magabrotheeeer/vidtube/internal/storage/media"
)

var (
	// ErrInvalidCredentials неверный пароль при логине или смене пароля.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken refresh-токен не прошёл проверку подписи, срока,
	// либо не совпал с хранимым значением (replay после ротации или логаута).
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrUpstream не удалось загрузить медиафайл во внешнее хранилище.
	ErrUpstream = errors.New("media store unavailable")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUID возвращает пользователя по UID или ошибку, если не найден.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByLogin возвращает пользователя по username или email.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// SetRefreshToken безусловно перезаписывает refresh-токен пользователя.
	SetRefreshToken(ctx context.Context, userUID, token string) error
	// RotateRefreshToken атомарно заменяет refresh-токен при совпадении старого значения.
	RotateRefreshToken(ctx context.Context, userUID, oldToken, newToken string) error
	// ClearRefreshToken сбрасывает refresh-токен в пустую строку.
	ClearRefreshToken(ctx context.Context, userUID string) error
	// UpdateAccount обновляет полное имя и email.
	UpdateAccount(ctx context.Context, userUID, fullName, email string) error
	// UpdatePassword обновляет хэш пароля.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
	// UpdateAvatar обновляет ссылку на аватар.
	UpdateAvatar(ctx context.Context, userUID, avatarURL string) error
	// UpdateCoverImage обновляет ссылку на обложку.
	UpdateCoverImage(ctx context.Context, userUID, coverImageURL string) error
}

// MediaStore описывает контракт внешнего хранилища медиафайлов.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	KeyFromURL(publicURL string) string
}

// ProfileInvalidator сбрасывает кешированный профиль канала после
// изменения его публичных полей.
type ProfileInvalidator interface {
	InvalidateProfile(username string)
}

// TokenPair пара токенов, выпускаемых вместе.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Upload содержимое одного multipart-файла.
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// RegisterInput входные данные регистрации. Avatar обязателен, Cover — нет.
type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
	Avatar   Upload
	Cover    *Upload
}

// AuthService отвечает за регистрацию, аутентификацию и жизненный цикл сессии.
type AuthService struct {
	users    UserRepository
	media    MediaStore
	profiles ProfileInvalidator
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, mediaStore MediaStore, profiles ProfileInvalidator,
	jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		media:    mediaStore,
		profiles: profiles,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя: сначала загружает аватар и,
// если передана, обложку, затем пишет запись в базу. Если запись не
// создалась, уже загруженные блобы удаляются компенсирующим удалением
// (best-effort, неудача удаления только логируется).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, err
	}

	avatarKey := media.ObjectKey("avatars", in.Avatar.Filename)
	avatarURL, err := s.media.Upload(ctx, avatarKey, in.Avatar.Reader, in.Avatar.Size, in.Avatar.ContentType)
	if err != nil {
		s.log.Error("avatar upload failed", sl.Err(err))
		return nil, ErrUpstream
	}

	var coverURL, coverKey string
	if in.Cover != nil {
		coverKey = media.ObjectKey("covers", in.Cover.Filename)
		coverURL, err = s.media.Upload(ctx, coverKey, in.Cover.Reader, in.Cover.Size, in.Cover.ContentType)
		if err != nil {
			s.log.Error("cover upload failed", sl.Err(err))
			s.removeBlob(ctx, avatarKey)
			return nil, ErrUpstream
		}
	}

	user := models.User{
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		PasswordHash:  hashed,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}
	newUID, err := s.users.CreateUser(ctx, user)
	if err != nil {
		s.removeBlob(ctx, avatarKey)
		if coverKey != "" {
			s.removeBlob(ctx, coverKey)
		}
		return nil, err
	}

	created, err := s.users.GetUserByUID(ctx, newUID)
	if err != nil {
		return nil, err
	}
	return created.Public(), nil
}

// Login проверяет пароль пользователя по username или email и выпускает
// пару токенов. Refresh-токен перезаписывается безусловно: прежняя
// сессия теряет право на ротацию.
func (s *AuthService) Login(ctx context.Context, login, rawPassword string) (*models.PublicUser, *TokenPair, error) {
	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user.Public(), pair, nil
}

// Refresh обменивает refresh-токен на новую пару. Предъявленный токен
// сверяется с хранимым значением атомарно, одним compare-and-set на
// уровне базы: из двух конкурентных ротаций одного токена успешной
// будет не больше одной, вторая получит ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.jwtMaker.ParseRefreshToken(presented)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	accessToken, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Username)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtMaker.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, err
	}

	if err := s.users.RotateRefreshToken(ctx, user.UID, presented, newRefresh); err != nil {
		if errors.Is(err, storage.ErrTokenMismatch) || errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// Logout завершает сессию пользователя, сбрасывая refresh-токен.
// Повторный вызов безвреден.
func (s *AuthService) Logout(ctx context.Context, userUID string) error {
	return s.users.ClearRefreshToken(ctx, userUID)
}

// ChangePassword меняет пароль после проверки старого.
func (s *AuthService) ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error {
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userUID, hashed)
}

// UpdateAccount обновляет полное имя и email и возвращает перечитанную
// из базы публичную проекцию пользователя.
func (s *AuthService) UpdateAccount(ctx context.Context, userUID, fullName, email string) (*models.PublicUser, error) {
	if err := s.users.UpdateAccount(ctx, userUID, fullName, email); err != nil {
		return nil, err
	}
	return s.refetch(ctx, userUID)
}

// UpdateAvatar загружает новый аватар и обновляет ссылку на него.
// Прежний блоб удаляется после успешного обновления записи.
func (s *AuthService) UpdateAvatar(ctx context.Context, userUID string, upload Upload) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	key := media.ObjectKey("avatars", upload.Filename)
	url, err := s.media.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		s.log.Error("avatar upload failed", sl.Err(err))
		return nil, ErrUpstream
	}
	if err := s.users.UpdateAvatar(ctx, userUID, url); err != nil {
		s.removeBlob(ctx, key)
		return nil, err
	}
	if user.AvatarURL != "" {
		s.removeBlob(ctx, s.media.KeyFromURL(user.AvatarURL))
	}
	return s.refetch(ctx, userUID)
}

// UpdateCoverImage загружает новую обложку и обновляет ссылку на неё.
// Прежний блоб удаляется после успешного обновления записи.
func (s *AuthService) UpdateCoverImage(ctx context.Context, userUID string, upload Upload) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	key := media.ObjectKey("covers", upload.Filename)
	url, err := s.media.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		s.log.Error("cover upload failed", sl.Err(err))
		return nil, ErrUpstream
	}
	if err := s.users.UpdateCoverImage(ctx, userUID, url); err != nil {
		s.removeBlob(ctx, key)
		return nil, err
	}
	if user.CoverImageURL != "" {
		s.removeBlob(ctx, s.media.KeyFromURL(user.CoverImageURL))
	}
	return s.refetch(ctx, userUID)
}

// issueTokens выпускает пару токенов и сохраняет refresh на пользователе.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Username)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMaker.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.UID, refreshToken); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// refetch перечитывает пользователя после обновления и сбрасывает
// кешированный профиль его канала.
func (s *AuthService) refetch(ctx context.Context, userUID string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if s.profiles != nil {
		s.profiles.InvalidateProfile(user.Username)
	}
	return user.Public(), nil
}

// removeBlob компенсирующее удаление блоба, неудача только логируется.
func (s *AuthService) removeBlob(ctx context.Context, key string) {
	if err := s.media.Remove(ctx, key); err != nil {
		s.log.Warn("compensating delete failed", slog.String("key", key), sl.Err(err))
	}
}
