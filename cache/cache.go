// SPDX-License-Identifier: GPL-3.0-only

package cache

import (
	"context"
	"errors"
	"time"

	"faithconnect-server/commons"

	"github.com/redis/go-redis/v9"
)

// Nil is returned by Get when a key does not exist or has expired.
var Nil = redis.Nil

var client *redis.Client

// InitCache connects to redis when REDIS_URL is set. The cache is optional;
// callers must tolerate Enabled() being false. Calling it again re-resolves
// the configuration, dropping any previous client.
func InitCache() {
	client = nil

	redisURL := commons.GetEnv("REDIS_URL")
	if redisURL == "" {
		commons.Logger.Info("REDIS_URL not set, transient cache disabled")
		return
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		commons.Logger.Errorf("Invalid REDIS_URL, transient cache disabled: %v", err)
		return
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		commons.Logger.Errorf("Redis connection failed, transient cache disabled: %v", err)
		return
	}

	client = rdb
	commons.Logger.Info("Redis connection established")
}

func Enabled() bool {
	return client != nil
}

func Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if client == nil {
		return errors.New("cache is not configured")
	}
	return client.Set(ctx, key, value, ttl).Err()
}

func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", errors.New("cache is not configured")
	}
	return client.Get(ctx, key).Result()
}

func Del(ctx context.Context, key string) error {
	if client == nil {
		return errors.New("cache is not configured")
	}
	return client.Del(ctx, key).Err()
}
