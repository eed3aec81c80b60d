// Package cache provides an optional Redis lookaside cache for token
// resolution. The service runs fine without it; every operation degrades to a
// miss on error.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/models"
)

const (
	tokenKeyPrefix = "tqr:token:"
	tokenTTL       = 5 * time.Minute
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache caches resolved player tokens
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Host+":"+cfg.Port).Msg("Redis cache connected")
	return &RedisCache{client: client}, nil
}

// GetPlayer returns the cached player for a token, if present
func (c *RedisCache) GetPlayer(ctx context.Context, token string) (*models.Player, bool) {
	data, err := c.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Redis get failed")
		}
		metrics.RecordCacheMiss()
		return nil, false
	}

	var player models.Player
	if err := json.Unmarshal(data, &player); err != nil {
		log.Warn().Err(err).Msg("Failed to unmarshal cached player")
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return &player, true
}

// SetPlayer caches a resolved player under its token with a short TTL
func (c *RedisCache) SetPlayer(ctx context.Context, token string, player *models.Player) {
	data, err := json.Marshal(player)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal player for cache")
		return
	}

	if err := c.client.Set(ctx, tokenKeyPrefix+token, data, tokenTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis set failed")
	}
}

// InvalidateToken drops a cached token, used when a player is deleted
func (c *RedisCache) InvalidateToken(ctx context.Context, token string) {
	if err := c.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis delete failed")
	}
}

// Close closes the Redis connection
func (c *RedisCache) Close() {
	if err := c.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis connection")
	}
}
