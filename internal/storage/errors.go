// Package storage определяет общие ошибки слоя хранения.
// Репозитории возвращают эти значения через errors.Is-совместимую обёртку,
// сервисы переводят их в доменные ошибки, обработчики — в HTTP-статусы.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConflict нарушение уникальности (username или email уже заняты).
	ErrConflict = errors.New("already exists")
	// ErrTokenMismatch предъявленный refresh-токен не совпал с хранимым
	// значением при ротации: либо токен уже был заменён (replay),
	// либо сессия завершена.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
