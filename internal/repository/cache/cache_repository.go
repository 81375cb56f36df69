package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
)

const lastPublishedKey = "parking:dataset:last_published"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger) *cacheRepository {
	return &cacheRepository{client: client, logger: logger}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}
	return val > 0, nil
}

// PageKey is the cache key of one SoQL page; the query is hashed so keys
// stay short.
func PageKey(dataset, query string) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("datasf:page:%s:%s", dataset, hex.EncodeToString(sum[:]))
}

func (r *cacheRepository) GetPage(ctx context.Context, dataset, query string) ([]byte, error) {
	return r.Get(ctx, PageKey(dataset, query))
}

func (r *cacheRepository) SetPage(ctx context.Context, dataset, query string, data []byte, ttl time.Duration) error {
	return r.Set(ctx, PageKey(dataset, query), data, ttl)
}

// GetLastPublished получает последнее событие публикации датасета
func (r *cacheRepository) GetLastPublished(ctx context.Context) (*domain.DatasetPublishedEvent, error) {
	data, err := r.Get(ctx, lastPublishedKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var event domain.DatasetPublishedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		r.logger.Error("Failed to unmarshal last published event", zap.Error(err))
		return nil, fmt.Errorf("unmarshal last published: %w", err)
	}
	return &event, nil
}

// SetLastPublished сохраняет событие без TTL
func (r *cacheRepository) SetLastPublished(ctx context.Context, event *domain.DatasetPublishedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal last published: %w", err)
	}
	return r.Set(ctx, lastPublishedKey, data, 0)
}
