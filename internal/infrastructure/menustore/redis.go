package menustore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "menu:session:"

// Redis 以 Redis 保存菜單，存活時間由 TTL 控制
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis 連線並測試 Redis
func NewRedis(cfg config.MenuStoreConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, cfg.TTL), nil
}

// NewRedisWithClient 使用既有的 Redis 連線
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Save 儲存或覆寫菜單
func (r *Redis) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}
	return nil
}

// Get 取回菜單並延長存活時間
func (r *Redis) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("menu", id)
			return nil, common.ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu: %w", err)
	}

	if err := r.client.Expire(ctx, r.key(id), r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh menu ttl: %w", err)
	}
	common.LogCacheHit("menu", id)
	return &s, nil
}

// Delete 移除菜單
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 關閉連線
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(id string) string {
	return redisKeyPrefix + id
}
