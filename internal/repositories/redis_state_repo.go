package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradenHooton/userboard/internal/models"
	"github.com/gomodule/redigo/redis"
)

// RedisStateRepository keeps client-side values in Redis under a key prefix
type RedisStateRepository struct {
	pool   *redis.Pool
	prefix string
}

func NewRedisStateRepository(pool *redis.Pool, prefix string) *RedisStateRepository {
	return &RedisStateRepository{pool: pool, prefix: prefix}
}

// NewRedisPool dials addr lazily for every pooled connection
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle: 3,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
	}
}

func (r *RedisStateRepository) Get(ctx context.Context, key string) (string, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return "", fmt.Errorf("get redis connection: %w", err)
	}
	defer conn.Close()

	value, err := redis.String(redis.DoContext(conn, ctx, "GET", r.prefix+key))
	if errors.Is(err, redis.ErrNil) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis GET %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisStateRepository) Set(ctx context.Context, key, value string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "SET", r.prefix+key, value); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (r *RedisStateRepository) Delete(ctx context.Context, key string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "DEL", r.prefix+key); err != nil {
		return fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return nil
}

// HealthCheck pings Redis
func (r *RedisStateRepository) HealthCheck(ctx context.Context) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "PING"); err != nil {
		return fmt.Errorf("redis PING: %w", err)
	}
	return nil
}
