package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vidtube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vidtube/internal/models"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

type ChannelServiceMock struct {
	mock.Mock
}

func (m *ChannelServiceMock) GetChannelProfile(ctx context.Context, username, viewerUID string) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerUID)
	profile, _ := args.Get(0).(*models.ChannelProfile)
	return profile, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newProfileRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/c/"+username, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("username", username)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	return req.WithContext(ctx)
}

func TestProfileHandler_ServeHTTP(t *testing.T) {
	profile := &models.ChannelProfile{
		UID:               "550e8400-e29b-41d4-a716-446655440000",
		Username:          "alice",
		FullName:          "Alice Smith",
		SubscriberCount:   3,
		SubscribedToCount: 1,
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		serviceMock := new(ChannelServiceMock)
		serviceMock.On("GetChannelProfile", mock.Anything, "alice", "").Return(profile, nil).Once()
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newProfileRequest("alice"))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		channel := got["data"].(map[string]any)["channel"].(map[string]any)
		assert.Equal(t, "alice", channel["username"])
		assert.Equal(t, float64(3), channel["subscriber_count"])
		assert.Equal(t, false, channel["is_subscribed"])

		serviceMock.AssertExpectations(t)
	})

	t.Run("authorized viewer passes own uid", func(t *testing.T) {
		subscribed := *profile
		subscribed.IsSubscribed = true

		serviceMock := new(ChannelServiceMock)
		serviceMock.On("GetChannelProfile", mock.Anything, "alice", "viewer-uid").
			Return(&subscribed, nil).Once()
		handler := New(newNoopLogger(), serviceMock)

		req := newProfileRequest("alice")
		ctx := context.WithValue(req.Context(), middlewarectx.UserKey, &models.User{UID: "viewer-uid"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		channel := got["data"].(map[string]any)["channel"].(map[string]any)
		assert.Equal(t, true, channel["is_subscribed"])

		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown channel", func(t *testing.T) {
		serviceMock := new(ChannelServiceMock)
		serviceMock.On("GetChannelProfile", mock.Anything, "ghost", "").
			Return(nil, storage.ErrNotFound).Once()
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newProfileRequest("ghost"))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "channel not found", got["error"])
	})
}
