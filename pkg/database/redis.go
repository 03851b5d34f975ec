package database

import (
	"context"
	"fmt"
	"learnflow_backend/internal/config"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 仪表盘缓存只需要少量连接
const (
	redisPoolSize     = 20
	redisMinIdleConns = 2
	redisPingTimeout  = 5 * time.Second
)

// InitRedis 未启用时返回 nil 客户端，调用方需容忍 nil
func InitRedis(ctx context.Context, cfg *config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Info("Redis disabled, dashboard cache off")
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	log.Info("Redis connection established", zap.String("addr", addr), zap.Int("db", cfg.DB))
	return rdb, nil
}
