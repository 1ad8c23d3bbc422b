package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"synapse/internal/models"
)

const learnedChannel = "synapse:knowledge:learned"

// RedisService provides the optional shared lookup cache and the
// learned-knowledge event channel. The server runs fine without it.
type RedisService struct {
	client   *redis.Client
	cacheTTL time.Duration
}

// NewRedisService connects to Redis and verifies the connection.
func NewRedisService(redisURL string, cacheTTL time.Duration) (*RedisService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	log.Println("✅ Redis connection established")
	return &RedisService{client: client, cacheTTL: cacheTTL}, nil
}

// GetCached implements lookup.SecondaryCache.
func (r *RedisService) GetCached(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, "synapse:lookup:"+key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// SetCached implements lookup.SecondaryCache. Failures are ignored; the
// in-process cache still holds the value.
func (r *RedisService) SetCached(ctx context.Context, key string, value string) {
	if err := r.client.Set(ctx, "synapse:lookup:"+key, value, r.cacheTTL).Err(); err != nil {
		log.Printf("⚠️  [REDIS] Failed to cache %q: %v", key, err)
	}
}

// PublishLearned implements knowledge.EventPublisher: fire-and-forget
// notification for every learned or calculated entry.
func (r *RedisService) PublishLearned(ctx context.Context, entry models.KnowledgeEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.client.Publish(ctx, learnedChannel, payload).Err(); err != nil {
		log.Printf("⚠️  [REDIS] Failed to publish learned event for %s/%s: %v", entry.Kind, entry.Key, err)
	}
}

// Ping reports connection health.
func (r *RedisService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisService) Close() error {
	return r.client.Close()
}
