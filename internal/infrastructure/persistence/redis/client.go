// Package redis 提供Redis连接与订单读缓存
package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/shopmall/internal/infrastructure/config"
)

// InitClient 初始化Redis客户端并Ping验证连通性
func InitClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	log.Printf("✅ Redis已连接: %s", cfg.Addr)
	return client, nil
}
