package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the redis compatible cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")
	log := logger.For("cache")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       env.GetEnvInt("CACHE_DB", 0),
	})

	// Test the connection
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Warn().Err(err).Msg("could not connect to cache")
	} else {
		log.Info().Str("reply", pong).Msg("connected to cache")
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}
