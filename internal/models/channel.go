package models

import "time"

// Subscription ребро графа подписок: кто подписан и на какой канал.
// Пара (SubscriberUID, ChannelUID) уникальна.
type Subscription struct {
	ID            int64
	SubscriberUID string
	ChannelUID    string
}

// ChannelProfile агрегированный профиль канала: публичные поля
// пользователя плюс три вычисленных значения по графу подписок.
type ChannelProfile struct {
	UID               string `json:"uid"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatar_url"`
	CoverImageURL     string `json:"cover_image_url,omitempty"`
	SubscriberCount   int    `json:"subscriber_count"`
	SubscribedToCount int    `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// Video представляет загруженное на платформу видео.
type Video struct {
	ID              string
	OwnerUID        string
	Title           string
	VideoURL        string
	ThumbnailURL    string
	DurationSeconds int
	Views           int64
	CreatedAt       time.Time
}

// VideoOwner публичные поля владельца видео, подмешиваемые в историю просмотров.
type VideoOwner struct {
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// WatchEntry одна позиция истории просмотров: видео плюс его владелец.
// Порядок записей совпадает с порядком просмотров.
type WatchEntry struct {
	VideoID         string     `json:"video_id"`
	Title           string     `json:"title"`
	VideoURL        string     `json:"video_url"`
	ThumbnailURL    string     `json:"thumbnail_url"`
	DurationSeconds int        `json:"duration_seconds"`
	Views           int64      `json:"views"`
	WatchedAt       time.Time  `json:"watched_at"`
	Owner           VideoOwner `json:"owner"`
}
