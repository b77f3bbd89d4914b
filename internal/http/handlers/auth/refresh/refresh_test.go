package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vidtube/internal/config"
	"github.com/magabrotheeeer/vidtube/internal/http/cookies"
	authservice "github.com/magabrotheeeer/vidtube/internal/services/auth"
)

type RefreshServiceMock struct {
	mock.Mock
}

func (m *RefreshServiceMock) Refresh(ctx context.Context, presented string) (*authservice.TokenPair, error) {
	args := m.Called(ctx, presented)
	pair, _ := args.Get(0).(*authservice.TokenPair)
	return pair, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newHandler(serviceMock *RefreshServiceMock) *Handler {
	return New(newNoopLogger(), serviceMock, config.JWTToken{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	}, false)
}

func TestRefreshHandler_ServeHTTP(t *testing.T) {
	pair := &authservice.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	t.Run("token from cookie", func(t *testing.T) {
		serviceMock := new(RefreshServiceMock)
		serviceMock.On("Refresh", mock.Anything, "old-refresh").Return(pair, nil).Once()
		handler := newHandler(serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: "old-refresh"})
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		data := got["data"].(map[string]any)
		assert.Equal(t, "new-access", data["access_token"])
		assert.Equal(t, "new-refresh", data["refresh_token"])

		byName := map[string]*http.Cookie{}
		for _, c := range rec.Result().Cookies() {
			byName[c.Name] = c
		}
		require.Contains(t, byName, cookies.AccessToken)
		require.Contains(t, byName, cookies.RefreshToken)
		assert.Equal(t, "new-access", byName[cookies.AccessToken].Value)
		assert.Equal(t, "new-refresh", byName[cookies.RefreshToken].Value)

		serviceMock.AssertExpectations(t)
	})

	t.Run("token from request body", func(t *testing.T) {
		serviceMock := new(RefreshServiceMock)
		serviceMock.On("Refresh", mock.Anything, "body-refresh").Return(pair, nil).Once()
		handler := newHandler(serviceMock)

		body, err := json.Marshal(Request{RefreshToken: "body-refresh"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/refresh-token", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		serviceMock := new(RefreshServiceMock)
		handler := newHandler(serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/refresh-token", bytes.NewReader([]byte("{}")))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "refresh token is required", got["error"])
		serviceMock.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("replayed token", func(t *testing.T) {
		serviceMock := new(RefreshServiceMock)
		serviceMock.On("Refresh", mock.Anything, "stale-refresh").
			Return(nil, authservice.ErrInvalidToken).Once()
		handler := newHandler(serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: "stale-refresh"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "invalid refresh token", got["error"])
		assert.Empty(t, rec.Result().Cookies())
	})
}
