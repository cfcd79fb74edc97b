package cache

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/leon37/SnapFeed/internal/config"
)

// NewRedisClient 初始化 Redis 连接，登录会话存在这里
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	if _, err := client.Ping().Result(); err != nil {
		return nil, fmt.Errorf("connect redis failed: %w", err)
	}
	return client, nil
}
