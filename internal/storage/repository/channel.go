package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/vidtube/internal/models"
)

// GetChannelProfile возвращает агрегированный профиль канала по username
// (без учёта регистра): публичные поля пользователя, число подписчиков,
// число собственных подписок и признак подписки зрителя. viewerUID может
// быть пустым — тогда is_subscribed всегда false. Отсутствие канала —
// это ошибка ErrNotFound, а не пустой профиль: нулевые счётчики у
// существующего канала и отсутствующий канал различимы для вызывающего.
func (s *Storage) GetChannelProfile(ctx context.Context, username, viewerUID string) (*models.ChannelProfile, error) {
	const op = "storage.GetChannelProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url,
			      (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_uid = u.uid) AS subscriber_count,
			      (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_uid = u.uid) AS subscribed_to_count,
			      EXISTS (
			          SELECT 1 FROM subscriptions s
			          WHERE s.channel_uid = u.uid
			            AND s.subscriber_uid = NULLIF($2, '')::uuid
			      ) AS is_subscribed
			  FROM users u
			  WHERE lower(u.username) = lower($1)`
	row := s.DB.QueryRowContext(ctx, query, username, viewerUID)

	var profile models.ChannelProfile
	if err := row.Scan(&profile.UID, &profile.Username, &profile.FullName, &profile.Email,
		&profile.AvatarURL, &profile.CoverImageURL, &profile.SubscriberCount,
		&profile.SubscribedToCount, &profile.IsSubscribed); err != nil {
		return nil, mapError(op, err)
	}
	return &profile, nil
}

// ListWatchHistory возвращает историю просмотров пользователя в порядке
// просмотров, подмешивая к каждому видео публичные поля владельца.
// Владелец читается по первичному ключу, поэтому на запись истории
// приходится ровно одна строка. Пустая история — пустой список, не ошибка.
func (s *Storage) ListWatchHistory(ctx context.Context, userUID string) ([]models.WatchEntry, error) {
	const op = "storage.ListWatchHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT v.id, v.title, v.video_url, v.thumbnail_url, v.duration_seconds,
			      v.views, h.watched_at, o.full_name, o.username, o.avatar_url
			  FROM watch_history h
			  JOIN videos v ON v.id = h.video_id
			  JOIN users o ON o.uid = v.owner_uid
			  WHERE h.user_uid = $1
			  ORDER BY h.id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.WatchEntry, 0)
	for rows.Next() {
		var e models.WatchEntry
		if err = rows.Scan(&e.VideoID, &e.Title, &e.VideoURL, &e.ThumbnailURL,
			&e.DurationSeconds, &e.Views, &e.WatchedAt,
			&e.Owner.FullName, &e.Owner.Username, &e.Owner.AvatarURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddWatchEntry дописывает видео в конец истории просмотров пользователя.
// Несуществующее видео превращается в ErrNotFound через нарушение внешнего ключа.
func (s *Storage) AddWatchEntry(ctx context.Context, userUID, videoID string) error {
	const op = "storage.AddWatchEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO watch_history (user_uid, video_id) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, userUID, videoID); err != nil {
		return mapError(op, err)
	}
	return nil
}

// CreateSubscription добавляет ребро подписки (subscriber, channel).
// Повторная подписка на тот же канал — ErrConflict.
func (s *Storage) CreateSubscription(ctx context.Context, subscriberUID, channelUID string) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (subscriber_uid, channel_uid) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, subscriberUID, channelUID); err != nil {
		return mapError(op, err)
	}
	return nil
}

// RemoveSubscription удаляет ребро подписки, если оно существует.
func (s *Storage) RemoveSubscription(ctx context.Context, subscriberUID, channelUID string) error {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE subscriber_uid = $1 AND channel_uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, subscriberUID, channelUID); err != nil {
		return mapError(op, err)
	}
	return nil
}
