// Package media реализует хранилище медиафайлов поверх MinIO/S3.
// Сервису нужны три операции: загрузить блоб из multipart-потока,
// удалить блоб (компенсация при неудачной регистрации) и построить
// публичную ссылку на объект.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/vidtube/internal/config"
)

// Store адаптер MinIO для операций с медиафайлами.
type Store struct {
	cfg    config.MediaStore
	client *mclient.Client
}

// New создает и инициализирует клиент MinIO.
// Убирает схему из endpoint, подбирает Secure по схеме
// и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg config.MediaStore) (*Store, error) {
	const op = "media.New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &Store{cfg: cfg, client: client}, nil
}

// ObjectKey формирует ключ объекта вида "<kind>/<uuid><ext>",
// расширение берётся из исходного имени файла.
func ObjectKey(kind, filename string) string {
	return path.Join(kind, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

// Upload загружает блоб в бакет и возвращает публичную ссылку на него.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	const op = "media.Upload"

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, mclient.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.publicURL(key), nil
}

// Remove удаляет блоб из бакета. Используется как компенсирующее
// удаление: если запись пользователя не создалась, загруженные
// файлы не должны остаться сиротами.
func (s *Store) Remove(ctx context.Context, key string) error {
	const op = "media.Remove"

	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// KeyFromURL восстанавливает ключ объекта из публичной ссылки.
func (s *Store) KeyFromURL(publicURL string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/"
	return strings.TrimPrefix(publicURL, base)
}

func (s *Store) publicURL(key string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return base + "/" + key
}
