package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/vidtube/internal/models"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

const userColumns = `uid, username, email, full_name, password_hash,
			      avatar_url, cover_image_url, refresh_token, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.CoverImageURL, &u.RefreshToken, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, full_name, password_hash,
			      avatar_url, cover_image_url)
			  VALUES (lower($1), $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.CoverImageURL).Scan(&newUID); err != nil {
		return "", mapError(op, err)
	}
	return newUID, nil
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUserByLogin возвращает пользователя по username (без учёта регистра)
// или по email — что совпадёт первым.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.GetUserByLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE lower(username) = lower($1) OR email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, login))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// SetRefreshToken безусловно записывает новый refresh-токен пользователя.
// Используется при логине: прежняя сессия при этом теряет право на ротацию.
func (s *Storage) SetRefreshToken(ctx context.Context, userUID, token string) error {
	const op = "storage.SetRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET refresh_token = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, token, userUID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// RotateRefreshToken атомарно заменяет refresh-токен пользователя:
// запись происходит только если хранимое значение равно oldToken
// (compare-and-set одним UPDATE). Если значение уже изменилось —
// предъявленный токен устарел и ротация отклоняется, хранимое
// значение при этом остаётся нетронутым.
func (s *Storage) RotateRefreshToken(ctx context.Context, userUID, oldToken, newToken string) error {
	const op = "storage.RotateRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET refresh_token = $1
			  WHERE uid = $2 AND refresh_token = $3`
	result, err := s.DB.ExecContext(ctx, query, newToken, userUID, oldToken)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTokenMismatch)
	}
	return nil
}

// ClearRefreshToken сбрасывает refresh-токен пользователя в пустую строку.
// Операция идемпотентна.
func (s *Storage) ClearRefreshToken(ctx context.Context, userUID string) error {
	const op = "storage.ClearRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET refresh_token = '' WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return mapError(op, err)
	}
	return nil
}

// UpdateAccount обновляет полное имя и email пользователя.
func (s *Storage) UpdateAccount(ctx context.Context, userUID, fullName, email string) error {
	const op = "storage.UpdateAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name = $1,
			      email = $2
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, fullName, email, userUID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// UpdatePassword обновляет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// UpdateAvatar обновляет ссылку на аватар пользователя.
func (s *Storage) UpdateAvatar(ctx context.Context, userUID, avatarURL string) error {
	const op = "storage.UpdateAvatar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET avatar_url = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, avatarURL, userUID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// UpdateCoverImage обновляет ссылку на обложку канала пользователя.
func (s *Storage) UpdateCoverImage(ctx context.Context, userUID, coverImageURL string) error {
	const op = "storage.UpdateCoverImage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET cover_image_url = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, coverImageURL, userUID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
