package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken возвращается, если токен не прошёл проверку подписи,
// срока действия или типа.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims описывает данные, хранящиеся в access-токене.
type AccessClaims struct {
	UserUID              string `json:"uid"`      // Идентификатор пользователя
	Username             string `json:"username"` // Имя пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// RefreshClaims описывает данные, хранящиеся в refresh-токене.
// Refresh намеренно несёт только идентификатор: остальное читается из базы.
type RefreshClaims struct {
	UserUID string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateAccessToken создает access-токен с uid и username пользователя,
// подписывая его access-секретом. Время жизни определяется accessTTL.
func (j *MakerImpl) GenerateAccessToken(userUID, username string) (string, error) {
	claims := AccessClaims{
		UserUID:  userUID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.accessSecret))
}

// GenerateRefreshToken создает refresh-токен с uid пользователя,
// подписывая его refresh-секретом. Время жизни определяется refreshTTL.
// Уникальный jti гарантирует, что два токена одного пользователя
// никогда не совпадают, даже выпущенные в одну секунду.
func (j *MakerImpl) GenerateRefreshToken(userUID string) (string, error) {
	claims := RefreshClaims{
		UserUID: userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.refreshTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.refreshSecret))
}

// ParseAccessToken парсит access-токен, проверяет подпись и срок действия,
// возвращает AccessClaims, если токен корректен.
func (j *MakerImpl) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	const op = "jwt.ParseAccessToken"
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{},
		func(_ *jwt.Token) (any, error) {
			return []byte(j.accessSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}

// ParseRefreshToken парсит refresh-токен, проверяет подпись и срок действия,
// возвращает RefreshClaims, если токен корректен.
func (j *MakerImpl) ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	const op = "jwt.ParseRefreshToken"
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{},
		func(_ *jwt.Token) (any, error) {
			return []byte(j.refreshSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
