package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/itinerary-microservice/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	clientName  = "itinerary-microservice"
	pingTimeout = 5 * time.Second
)

// Redis - общее подключение: кеш и Redis Streams работают через один клиент
type Redis struct {
	client *redis.Client
	addr   string
	logger *zap.Logger
}

// NewRedis открывает пул и проверяет его PING; ReadTimeout должен быть больше блокировки XREADGROUP
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts := &redis.Options{
		Addr:         cfg.Addr(),
		ClientName:   clientName,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.ReadTimeout,
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)

	return &Redis{
		client: client,
		addr:   opts.Addr,
		logger: logger.With(zap.String("redis_addr", opts.Addr)),
	}, nil
}

func (r *Redis) Close() error {
	stats := r.client.PoolStats()
	r.logger.Info("Closing Redis connection",
		zap.Uint32("total_conns", stats.TotalConns),
		zap.Uint32("timeouts", stats.Timeouts))
	return r.client.Close()
}

// Health - PING для /health
func (r *Redis) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", r.addr, err)
	}
	return nil
}

// Client - сырой клиент для стримов
func (r *Redis) Client() *redis.Client {
	return r.client
}
