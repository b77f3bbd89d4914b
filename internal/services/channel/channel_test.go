package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vidtube/internal/models"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

type ChannelRepositoryMock struct {
	mock.Mock
}

func (m *ChannelRepositoryMock) GetChannelProfile(ctx context.Context, username, viewerUID string) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerUID)
	profile, _ := args.Get(0).(*models.ChannelProfile)
	return profile, args.Error(1)
}

func (m *ChannelRepositoryMock) ListWatchHistory(ctx context.Context, userUID string) ([]models.WatchEntry, error) {
	args := m.Called(ctx, userUID)
	entries, _ := args.Get(0).([]models.WatchEntry)
	return entries, args.Error(1)
}

func (m *ChannelRepositoryMock) AddWatchEntry(ctx context.Context, userUID, videoID string) error {
	args := m.Called(ctx, userUID, videoID)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *ChannelRepositoryMock) CreateSubscription(ctx context.Context, subscriberUID, channelUID string) error {
	args := m.Called(ctx, subscriberUID, channelUID)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) RemoveSubscription(ctx context.Context, subscriberUID, channelUID string) error {
	args := m.Called(ctx, subscriberUID, channelUID)
	return args.Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestChannelService_GetChannelProfile(t *testing.T) {
	profile := &models.ChannelProfile{
		UID:               "550e8400-e29b-41d4-a716-446655440000",
		Username:          "alice",
		FullName:          "Alice Smith",
		SubscriberCount:   0,
		SubscribedToCount: 0,
	}

	t.Run("anonymous cache miss fills cache", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		cacheMock := new(CacheMock)
		svc := NewChannelService(repoMock, cacheMock, newNoopLogger())

		cacheMock.On("Get", ProfileCacheKey("alice"), mock.Anything).Return(false, nil).Once()
		repoMock.On("GetChannelProfile", mock.Anything, "alice", "").Return(profile, nil).Once()
		cacheMock.On("Set", ProfileCacheKey("alice"), profile, profileCacheTTL).Return(nil).Once()

		got, err := svc.GetChannelProfile(context.Background(), "alice", "")
		require.NoError(t, err)
		assert.Equal(t, 0, got.SubscriberCount)
		assert.Equal(t, 0, got.SubscribedToCount)
		assert.False(t, got.IsSubscribed)

		repoMock.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
	})

	t.Run("anonymous cache hit skips storage", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		cacheMock := new(CacheMock)
		svc := NewChannelService(repoMock, cacheMock, newNoopLogger())

		cacheMock.On("Get", ProfileCacheKey("alice"), mock.Anything).
			Run(func(args mock.Arguments) {
				dst := args.Get(1).(**models.ChannelProfile)
				*dst = profile
			}).
			Return(true, nil).Once()

		got, err := svc.GetChannelProfile(context.Background(), "alice", "")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		repoMock.AssertNotCalled(t, "GetChannelProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("authorized viewer bypasses cache", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		cacheMock := new(CacheMock)
		svc := NewChannelService(repoMock, cacheMock, newNoopLogger())

		subscribed := *profile
		subscribed.IsSubscribed = true
		repoMock.On("GetChannelProfile", mock.Anything, "alice", "viewer-uid").Return(&subscribed, nil).Once()

		got, err := svc.GetChannelProfile(context.Background(), "alice", "viewer-uid")
		require.NoError(t, err)
		assert.True(t, got.IsSubscribed)
		cacheMock.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("unknown channel", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		cacheMock := new(CacheMock)
		svc := NewChannelService(repoMock, cacheMock, newNoopLogger())

		cacheMock.On("Get", ProfileCacheKey("ghost"), mock.Anything).Return(false, nil).Once()
		repoMock.On("GetChannelProfile", mock.Anything, "ghost", "").Return(nil, storage.ErrNotFound).Once()

		got, err := svc.GetChannelProfile(context.Background(), "ghost", "")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, got)
		cacheMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChannelService_GetWatchHistory(t *testing.T) {
	t.Run("preserves watch order", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		svc := NewChannelService(repoMock, new(CacheMock), newNoopLogger())

		entries := []models.WatchEntry{
			{VideoID: "video-3", Title: "third uploaded, first watched"},
			{VideoID: "video-1", Title: "first uploaded"},
			{VideoID: "video-2", Title: "second uploaded"},
		}
		repoMock.On("ListWatchHistory", mock.Anything, "uid-1").Return(entries, nil).Once()

		got, err := svc.GetWatchHistory(context.Background(), "uid-1")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "video-3", got[0].VideoID)
		assert.Equal(t, "video-1", got[1].VideoID)
		assert.Equal(t, "video-2", got[2].VideoID)
	})

	t.Run("empty history", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		svc := NewChannelService(repoMock, new(CacheMock), newNoopLogger())

		repoMock.On("ListWatchHistory", mock.Anything, "uid-1").Return([]models.WatchEntry{}, nil).Once()

		got, err := svc.GetWatchHistory(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestChannelService_Subscribe(t *testing.T) {
	channel := &models.User{UID: "channel-uid", Username: "alice"}

	t.Run("valid subscription invalidates cached profile", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		cacheMock := new(CacheMock)
		svc := NewChannelService(repoMock, cacheMock, newNoopLogger())

		repoMock.On("GetUserByLogin", mock.Anything, "alice").Return(channel, nil).Once()
		repoMock.On("CreateSubscription", mock.Anything, "viewer-uid", "channel-uid").Return(nil).Once()
		cacheMock.On("Invalidate", ProfileCacheKey("alice")).Return(nil).Once()

		err := svc.Subscribe(context.Background(), "viewer-uid", "alice")
		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
	})

	t.Run("self subscription rejected", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		svc := NewChannelService(repoMock, new(CacheMock), newNoopLogger())

		repoMock.On("GetUserByLogin", mock.Anything, "alice").Return(channel, nil).Once()

		err := svc.Subscribe(context.Background(), "channel-uid", "alice")
		assert.ErrorIs(t, err, ErrSelfSubscription)
		repoMock.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate subscription is idempotent", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		svc := NewChannelService(repoMock, new(CacheMock), newNoopLogger())

		repoMock.On("GetUserByLogin", mock.Anything, "alice").Return(channel, nil).Once()
		repoMock.On("CreateSubscription", mock.Anything, "viewer-uid", "channel-uid").
			Return(storage.ErrConflict).Once()

		err := svc.Subscribe(context.Background(), "viewer-uid", "alice")
		assert.NoError(t, err)
	})

	t.Run("unknown channel", func(t *testing.T) {
		repoMock := new(ChannelRepositoryMock)
		svc := NewChannelService(repoMock, new(CacheMock), newNoopLogger())

		repoMock.On("GetUserByLogin", mock.Anything, "ghost").Return(nil, storage.ErrNotFound).Once()

		err := svc.Subscribe(context.Background(), "viewer-uid", "ghost")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestChannelService_Unsubscribe(t *testing.T) {
	channel := &models.User{UID: "channel-uid", Username: "alice"}

	repoMock := new(ChannelRepositoryMock)
	cacheMock := new(CacheMock)
	svc := NewChannelService(repoMock, cacheMock, newNoopLogger())

	repoMock.On("GetUserByLogin", mock.Anything, "alice").Return(channel, nil).Once()
	repoMock.On("RemoveSubscription", mock.Anything, "viewer-uid", "channel-uid").Return(nil).Once()
	cacheMock.On("Invalidate", ProfileCacheKey("alice")).Return(nil).Once()

	err := svc.Unsubscribe(context.Background(), "viewer-uid", "alice")
	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestChannelService_AddWatchEntry(t *testing.T) {
	repoMock := new(ChannelRepositoryMock)
	svc := NewChannelService(repoMock, new(CacheMock), newNoopLogger())

	repoMock.On("AddWatchEntry", mock.Anything, "uid-1", "video-1").Return(nil).Once()

	assert.NoError(t, svc.AddWatchEntry(context.Background(), "uid-1", "video-1"))
	repoMock.AssertExpectations(t)
}
