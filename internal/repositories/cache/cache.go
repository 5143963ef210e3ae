// Package cache provides the Redis-backed cache layer. Merchant rows are
// the only hot entity: every admin listing and deposit transition reads
// the merchant first, so cached copies must be invalidated on each
// merchant-mutating write.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gungun88/merchant-platform-sub002/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{client: client, ttl: defaultTTL}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Get unmarshals the cached value into dest. The boolean reports whether
// the key was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func merchantKey(id uint) string {
	return fmt.Sprintf("merchant:id:%d", id)
}

func (s *CacheService) CacheMerchant(ctx context.Context, m *models.Merchant) error {
	return s.Set(ctx, merchantKey(m.ID), m)
}

func (s *CacheService) GetMerchant(ctx context.Context, id uint) (*models.Merchant, error) {
	var m models.Merchant
	found, err := s.Get(ctx, merchantKey(id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (s *CacheService) InvalidateMerchant(ctx context.Context, id uint) error {
	return s.Delete(ctx, merchantKey(id))
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
