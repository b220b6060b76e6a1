package redisdb

import (
	"github.com/redis/go-redis/v9"

	"ratehub/internal/config"
)

// NewClient builds a redis client from REDIS_URL, or nil when redis is not
// configured. Callers treat a nil client as "feature off".
func NewClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	return redis.NewClient(opts), nil
}
