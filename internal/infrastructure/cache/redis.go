package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

type redisCache struct {
	client     *redis.Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
}

// NewRedis connects to Redis and returns a Cache over it.  The connection is
// verified with a ping before use.
func NewRedis(cfg config.RedisConfig, logger logging.Logger) (Cache, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "connecting to redis at "+cfg.Addr)
	}

	logger.Info("connected to redis", logging.String("addr", cfg.Addr))
	return &redisCache{
		client:     client,
		logger:     logger,
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

func (c *redisCache) fullKey(key string) string { return c.prefix + key }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "cache get")
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.fullKey(key), value, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "cache set")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "cache delete")
	}
	return nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "cache ping")
	}
	return nil
}

func (c *redisCache) Close() error { return c.client.Close() }
