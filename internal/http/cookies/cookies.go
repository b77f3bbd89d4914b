// Package cookies задаёт и очищает авторизационные cookie с парой токенов.
// Атрибуты установки и очистки обязаны совпадать, иначе браузер не удалит
// cookie: оба пути проходят через одну точку сборки атрибутов.
package cookies

import (
	"net/http"
	"time"
)

const (
	// AccessToken имя cookie с access-токеном.
	AccessToken = "accessToken"
	// RefreshToken имя cookie с refresh-токеном.
	RefreshToken = "refreshToken"
)

// Set устанавливает httpOnly cookie с токеном. Secure включается только
// в боевом окружении, чтобы не ломать локальную разработку по http.
func Set(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetPair устанавливает обе авторизационные cookie разом.
func SetPair(w http.ResponseWriter, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration, secure bool) {
	Set(w, AccessToken, accessToken, accessTTL, secure)
	Set(w, RefreshToken, refreshToken, refreshTTL, secure)
}

// Clear удаляет cookie, повторяя атрибуты установки.
func Clear(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearPair удаляет обе авторизационные cookie.
func ClearPair(w http.ResponseWriter, secure bool) {
	Clear(w, AccessToken, secure)
	Clear(w, RefreshToken, secure)
}
