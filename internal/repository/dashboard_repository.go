package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DashboardCache 以用户为单位缓存仪表盘统计，Redis 未启用时所有操作都是空操作
type DashboardCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &DashboardCache{Redis: rdb, TTL: ttl}
}

func dashboardKey(userID string) string {
	return fmt.Sprintf("learnflow:dashboard:%s", userID)
}

// Get 命中时反序列化到 out 并返回 true
func (c *DashboardCache) Get(ctx context.Context, userID string, out interface{}) (bool, error) {
	if c == nil || c.Redis == nil {
		return false, nil
	}

	data, err := c.Redis.Get(ctx, dashboardKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DashboardCache) Set(ctx context.Context, userID string, value interface{}) error {
	if c == nil || c.Redis == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, dashboardKey(userID), data, c.TTL).Err()
}

// Invalidate 在任务、路线图或测验写入后调用
func (c *DashboardCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.Redis == nil {
		return nil
	}
	return c.Redis.Del(ctx, dashboardKey(userID)).Err()
}
