// Package ratelimit implementa ventanas fijas por key (Redis o memoria).
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	// Limit es la cantidad de requests permitidas por key y ventana.
	Limit  int
	Window time.Duration
	Prefix string
}

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = 60
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "ratelimit:"
	}
	return c
}

// Redis es un limitador de ventana fija: INCR + EXPIRE NX en una transacción.
// La ventana arranca con la primera request de cada key.
type Redis struct {
	client redis.Cmdable
	cfg    Config
}

func NewRedis(client redis.Cmdable, cfg Config) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &Redis{client: client, cfg: cfg.withDefaults()}, nil
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.cfg.Prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.cfg.Window)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %q: %w", key, err)
	}

	if incr.Val() <= int64(l.cfg.Limit) {
		return true, 0, nil
	}

	retry := ttl.Val()
	if retry <= 0 {
		retry = l.cfg.Window
	}
	return false, retry, nil
}

// Dial crea el cliente y verifica la conexión.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}
