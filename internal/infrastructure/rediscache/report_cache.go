package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/retail-pos/pkg/config"
)

// ReportCache caché de reportes sobre Redis. Todas las claves van con el
// prefijo "ledger:{tenant}:" para que la invalidación sea siempre acotada al
// tenant. Tolera cliente nil: sin Redis configurado todo es no-op.
type ReportCache struct {
	rdb *redis.Client
}

// New conecta a Redis. Addr vacío devuelve un caché no-op (nil client).
func New(ctx context.Context, cfg config.RedisConfig) (*ReportCache, error) {
	if cfg.Addr == "" {
		return &ReportCache{}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &ReportCache{rdb: rdb}, nil
}

// Get devuelve el valor cacheado o (nil, nil) en miss.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

// Set guarda el valor con TTL.
func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// InvalidateTenant borra todas las claves de reporte del tenant vía SCAN con
// el prefijo del tenant. Best-effort: el que llama decide si loguea el error.
func (c *ReportCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	if c.rdb == nil {
		return nil
	}
	pattern := fmt.Sprintf("ledger:%s:*", tenantID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close cierra la conexión.
func (c *ReportCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
