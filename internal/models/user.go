// Package models содержит доменные структуры видеоплатформы:
// пользователя (он же канал), видео, рёбра подписок и историю просмотров.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// PasswordHash и RefreshToken никогда не отдаются наружу —
// наружу уходит только проекция PublicUser.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Username      string    // Имя пользователя (уникальное, без учёта регистра)
	Email         string    // Электронная почта (уникальная)
	FullName      string    // Полное имя
	PasswordHash  string    // Хэш пароля пользователя
	AvatarURL     string    // Ссылка на аватар во внешнем хранилище
	CoverImageURL string    // Ссылка на обложку канала, может быть пустой
	RefreshToken  string    // Текущий refresh-токен, пустая строка — сессии нет
	CreatedAt     time.Time // Дата регистрации
}

// PublicUser публичная проекция пользователя для ответов API.
type PublicUser struct {
	UID           string    `json:"uid"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public возвращает проекцию пользователя без чувствительных полей.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		UID:           u.UID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// Sanitize обнуляет чувствительные поля перед тем, как пользователь
// попадёт в контекст запроса.
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.RefreshToken = ""
}
