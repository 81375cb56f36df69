package repository

import (
	"context"
	"time"

	"github.com/sf-parking-zones/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetPage получает страницу датасета из кеша
	GetPage(ctx context.Context, dataset, query string) ([]byte, error)

	// SetPage сохраняет страницу датасета в кеше
	SetPage(ctx context.Context, dataset, query string, data []byte, ttl time.Duration) error

	// GetLastPublished получает последнее опубликованное событие
	GetLastPublished(ctx context.Context) (*domain.DatasetPublishedEvent, error)

	// SetLastPublished сохраняет последнее опубликованное событие
	SetLastPublished(ctx context.Context, event *domain.DatasetPublishedEvent) error
}
