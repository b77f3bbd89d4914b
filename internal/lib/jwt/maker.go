// Package jwt реализует генерацию и парсинг пары JWT токенов сессии.
//
// Access-токен короткоживущий и самодостаточный: его проверка не требует
// обращения к базе. Refresh-токен долгоживущий, подписан отдельным секретом
// и дополнительно сверяется с единственным значением, хранящимся на
// пользователе (ротация со сверкой выполняется на уровне хранилища).
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга пары JWT токенов.
type Maker interface {
	// GenerateAccessToken создаёт короткоживущий access-токен для пользователя.
	GenerateAccessToken(userUID, username string) (string, error)
	// GenerateRefreshToken создаёт долгоживущий refresh-токен для пользователя.
	GenerateRefreshToken(userUID string) (string, error)
	// ParseAccessToken проверяет подпись и срок действия access-токена.
	ParseAccessToken(tokenStr string) (*AccessClaims, error)
	// ParseRefreshToken проверяет подпись и срок действия refresh-токена.
	ParseRefreshToken(tokenStr string) (*RefreshClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием двух секретных
// ключей и разных сроков жизни токенов.
type MakerImpl struct {
	accessSecret  string        // Секретный ключ для подписи access-токенов.
	refreshSecret string        // Секретный ключ для подписи refresh-токенов.
	accessTTL     time.Duration // Время жизни access-токена.
	refreshTTL    time.Duration // Время жизни refresh-токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретных ключей и TTL.
func NewMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}
