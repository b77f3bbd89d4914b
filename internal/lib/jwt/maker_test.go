package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseAccessToken_ValidCases(t *testing.T) {
	accessSecret := "test_access_secret_1234567890"
	refreshSecret := "test_refresh_secret_1234567890"
	accessTTL := 15 * time.Minute
	refreshTTL := 720 * time.Hour
	maker := NewMaker(accessSecret, refreshSecret, accessTTL, refreshTTL)

	tests := []struct {
		name     string
		userUID  string
		username string
	}{
		{
			name:     "regular user",
			userUID:  "550e8400-e29b-41d4-a716-446655440000",
			username: "alice",
		},
		{
			name:     "user with numbers in username",
			userUID:  "650e8400-e29b-41d4-a716-446655440001",
			username: "user123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateAccessToken(tt.userUID, tt.username)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseAccessToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, tt.username, claims.Username)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(accessTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_GenerateAndParseRefreshToken(t *testing.T) {
	maker := NewMaker("access_secret", "refresh_secret", time.Minute, time.Hour)

	token, err := maker.GenerateRefreshToken("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := maker.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", claims.UserUID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestMaker_TokensAreUniquePerIssue(t *testing.T) {
	// Токены, выпущенные для одного пользователя подряд (в одну секунду),
	// обязаны различаться: на этом держится ротация со сверкой старого значения.
	maker := NewMaker("access_secret", "refresh_secret", 15*time.Minute, time.Hour)

	first, err := maker.GenerateRefreshToken("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	second, err := maker.GenerateRefreshToken("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	firstClaims, err := maker.ParseRefreshToken(first)
	require.NoError(t, err)
	secondClaims, err := maker.ParseRefreshToken(second)
	require.NoError(t, err)
	assert.NotEmpty(t, firstClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)

	firstAccess, err := maker.GenerateAccessToken("uid", "user")
	require.NoError(t, err)
	secondAccess, err := maker.GenerateAccessToken("uid", "user")
	require.NoError(t, err)
	assert.NotEqual(t, firstAccess, secondAccess)
}

func TestMaker_ParseAccessToken_InvalidTokens(t *testing.T) {
	maker := NewMaker("access_secret", "refresh_secret", 15*time.Minute, time.Hour)
	otherMaker := NewMaker("other_access_secret", "other_refresh_secret", 15*time.Minute, time.Hour)
	expiredMaker := NewMaker("access_secret", "refresh_secret", -time.Minute, time.Hour)

	wrongSecretToken, err := otherMaker.GenerateAccessToken("uid", "user")
	require.NoError(t, err)
	expiredToken, err := expiredMaker.GenerateAccessToken("uid", "user")
	require.NoError(t, err)
	refreshToken, err := maker.GenerateRefreshToken("uid")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "wrong secret key",
			token: wrongSecretToken,
		},
		{
			name:  "expired token",
			token: expiredToken,
		},
		{
			name:  "refresh token instead of access",
			token: refreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseAccessToken(tt.token)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_ParseRefreshToken_RejectsAccessToken(t *testing.T) {
	// Секреты разные, поэтому access-токен не проходит проверку refresh-подписи.
	maker := NewMaker("access_secret", "refresh_secret", 15*time.Minute, time.Hour)

	accessToken, err := maker.GenerateAccessToken("uid", "user")
	require.NoError(t, err)

	claims, err := maker.ParseRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
