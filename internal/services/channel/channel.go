// Package services содержит бизнес-логику агрегатов по графу подписок:
// профиль канала со счётчиками, история просмотров и управление рёбрами подписок.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/vidtube/internal/models"
	"github.com/magabrotheeeer/vidtube/internal/storage"
)

// ErrSelfSubscription возвращается при попытке подписаться на собственный канал.
var ErrSelfSubscription = errors.New("cannot subscribe to own channel")

// profileCacheTTL время жизни кешированного профиля канала.
// Счётчики подписчиков могут отставать не больше чем на этот интервал.
const profileCacheTTL = time.Minute

// ChannelRepository определяет методы хранилища для агрегатов канала.
type ChannelRepository interface {
	// GetChannelProfile возвращает профиль канала с вычисленными счётчиками.
	GetChannelProfile(ctx context.Context, username, viewerUID string) (*models.ChannelProfile, error)
	// ListWatchHistory возвращает историю просмотров в порядке просмотров.
	ListWatchHistory(ctx context.Context, userUID string) ([]models.WatchEntry, error)
	// AddWatchEntry дописывает видео в конец истории просмотров.
	AddWatchEntry(ctx context.Context, userUID, videoID string) error
	// GetUserByLogin возвращает пользователя по username или email.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// CreateSubscription добавляет ребро подписки.
	CreateSubscription(ctx context.Context, subscriberUID, channelUID string) error
	// RemoveSubscription удаляет ребро подписки.
	RemoveSubscription(ctx context.Context, subscriberUID, channelUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ProfileCacheKey формирует ключ кеша для анонимного профиля канала.
func ProfileCacheKey(username string) string {
	return fmt.Sprintf("channel:%s", username)
}

// ChannelService реализует read-only агрегаты по графу подписок и
// операции над рёбрами, включая кеширование анонимных профилей.
type ChannelService struct {
	repo  ChannelRepository
	cache Cache
	log   *slog.Logger
}

// NewChannelService создает новый экземпляр ChannelService.
func NewChannelService(repo ChannelRepository, cache Cache, log *slog.Logger) *ChannelService {
	return &ChannelService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetChannelProfile возвращает профиль канала. Анонимные запросы
// (viewerUID пустой) обслуживаются из кеша: их результат не зависит
// от зрителя. Для авторизованных зрителей is_subscribed персонален,
// поэтому кеш не используется.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username, viewerUID string) (*models.ChannelProfile, error) {
	if viewerUID != "" {
		return s.repo.GetChannelProfile(ctx, username, viewerUID)
	}

	var cached *models.ChannelProfile
	cacheKey := ProfileCacheKey(username)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read channel profile from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	profile, err := s.repo.GetChannelProfile(ctx, username, "")
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, profile, profileCacheTTL); err != nil {
		s.log.Warn("failed to cache channel profile", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return profile, nil
}

// GetWatchHistory возвращает историю просмотров пользователя,
// сохраняя исходный порядок. Пустая история — пустой список.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userUID string) ([]models.WatchEntry, error) {
	return s.repo.ListWatchHistory(ctx, userUID)
}

// AddWatchEntry дописывает просмотренное видео в историю пользователя.
func (s *ChannelService) AddWatchEntry(ctx context.Context, userUID, videoID string) error {
	return s.repo.AddWatchEntry(ctx, userUID, videoID)
}

// Subscribe подписывает зрителя на канал по его username и
// инвалидирует кешированный профиль канала.
func (s *ChannelService) Subscribe(ctx context.Context, subscriberUID, channelUsername string) error {
	channel, err := s.repo.GetUserByLogin(ctx, channelUsername)
	if err != nil {
		return err
	}
	if channel.UID == subscriberUID {
		return ErrSelfSubscription
	}
	if err := s.repo.CreateSubscription(ctx, subscriberUID, channel.UID); err != nil {
		// повторная подписка идемпотентна
		if errors.Is(err, storage.ErrConflict) {
			return nil
		}
		return err
	}
	s.invalidateProfile(channel.Username)
	return nil
}

// Unsubscribe отписывает зрителя от канала по его username.
func (s *ChannelService) Unsubscribe(ctx context.Context, subscriberUID, channelUsername string) error {
	channel, err := s.repo.GetUserByLogin(ctx, channelUsername)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveSubscription(ctx, subscriberUID, channel.UID); err != nil {
		return err
	}
	s.invalidateProfile(channel.Username)
	return nil
}

// InvalidateProfile сбрасывает кешированный профиль канала.
// Вызывается также из auth-сервиса после изменения публичных полей.
func (s *ChannelService) InvalidateProfile(username string) {
	s.invalidateProfile(username)
}

func (s *ChannelService) invalidateProfile(username string) {
	cacheKey := ProfileCacheKey(username)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate channel profile", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
