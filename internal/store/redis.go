package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/ctxutil"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// RedisBackend stores records as <prefix>:<ns>:rec:<key> strings. The index
// is a list (<prefix>:<ns>:keys) for order plus a set (<prefix>:<ns>:members)
// so repeated saves never duplicate a key.
type RedisBackend struct {
	pool   *redis.Pool
	prefix string
}

// NewRedisBackend connects to addr and verifies the connection with PING.
func NewRedisBackend(ctx context.Context, addr, prefix string) (*RedisBackend, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address %w", olyerrors.ErrEmptyValue)
	}
	if prefix == "" {
		prefix = constants.DefaultRedisPrefix
	}

	pool := &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 5 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
	}

	b := &RedisBackend{pool: pool, prefix: prefix}
	conn, err := pool.GetContext(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = conn.Close() }()
	if _, err := conn.Do("PING"); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return b, nil
}

func (b *RedisBackend) recordKey(namespace, key string) string {
	return b.prefix + ":" + namespace + ":rec:" + key
}

func (b *RedisBackend) listKey(namespace string) string {
	return b.prefix + ":" + namespace + ":keys"
}

func (b *RedisBackend) setKey(namespace string) string {
	return b.prefix + ":" + namespace + ":members"
}

// Save implements Backend.
func (b *RedisBackend) Save(ctx context.Context, namespace, key string, data []byte) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validate(namespace, key); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	conn, err := b.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Do("SET", b.recordKey(namespace, key), data); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", namespace, key, err)
	}
	added, err := redis.Int(conn.Do("SADD", b.setKey(namespace), key))
	if err != nil {
		return fmt.Errorf("failed to index %s/%s: %w", namespace, key, err)
	}
	if added == 1 {
		if _, err := conn.Do("RPUSH", b.listKey(namespace), key); err != nil {
			return fmt.Errorf("failed to index %s/%s: %w", namespace, key, err)
		}
	}
	return nil
}

// Load implements Backend.
func (b *RedisBackend) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validate(namespace, key); err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	conn, err := b.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	data, err := redis.Bytes(conn.Do("GET", b.recordKey(namespace, key)))
	if errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("%s/%s: %w", namespace, key, olyerrors.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", namespace, key, err)
	}
	return data, nil
}

// ListKeys implements Backend.
func (b *RedisBackend) ListKeys(ctx context.Context, namespace string) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := ValidateKey(namespace); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	conn, err := b.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	keys, err := redis.Strings(conn.Do("LRANGE", b.listKey(namespace), 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", namespace, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	return b.pool.Close()
}
