package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	byName := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		byName[c.Name] = c
	}
	return byName
}

func TestSetPair(t *testing.T) {
	rec := httptest.NewRecorder()
	SetPair(rec, "access-tok", "refresh-tok", 15*time.Minute, 720*time.Hour, false)

	byName := cookiesByName(rec)
	require.Contains(t, byName, AccessToken)
	require.Contains(t, byName, RefreshToken)

	access := byName[AccessToken]
	assert.Equal(t, "access-tok", access.Value)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, int((15 * time.Minute).Seconds()), access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

	refresh := byName[RefreshToken]
	assert.Equal(t, "refresh-tok", refresh.Value)
	assert.Equal(t, int((720 * time.Hour).Seconds()), refresh.MaxAge)
}

func TestSetPair_SecureInProd(t *testing.T) {
	rec := httptest.NewRecorder()
	SetPair(rec, "access-tok", "refresh-tok", time.Minute, time.Hour, true)

	for _, c := range rec.Result().Cookies() {
		assert.True(t, c.Secure)
	}
}

func TestClearPair_MatchesSetAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearPair(rec, false)

	byName := cookiesByName(rec)
	require.Contains(t, byName, AccessToken)
	require.Contains(t, byName, RefreshToken)

	for _, name := range []string{AccessToken, RefreshToken} {
		c := byName[name]
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
		// атрибуты очистки совпадают с атрибутами установки,
		// иначе браузер оставит cookie на месте
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	}
}
