package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Dashboard stats caching (per area, short TTL)
func (c *Client) SetDashboardStats(area string, stats interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return c.rdb.Set(ctx, "stats:"+area, jsonData, ttl).Err()
}

func (c *Client) GetDashboardStats(area string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "stats:"+area).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("stats not cached")
		}
		return fmt.Errorf("failed to get stats: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// Unread notification counters
func (c *Client) SetUnreadCount(userID uint, count int64, ttl time.Duration) error {
	ctx := context.Background()
	key := fmt.Sprintf("unread:%d", userID)
	return c.rdb.Set(ctx, key, count, ttl).Err()
}

func (c *Client) GetUnreadCount(userID uint) (int64, error) {
	ctx := context.Background()
	key := fmt.Sprintf("unread:%d", userID)
	val, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("unread count not cached")
		}
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return val, nil
}

func (c *Client) InvalidateUnreadCount(userID uint) error {
	ctx := context.Background()
	key := fmt.Sprintf("unread:%d", userID)
	return c.rdb.Del(ctx, key).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
