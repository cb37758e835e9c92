package redis

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// Client represents a Redis client used for session storage.
type Client struct {
	rdb *redis.Client
}

// DB returns the underlying Redis client.
func (c *Client) DB() *redis.Client {
	return c.rdb
}

// Close closes the connection for graceful shutdown.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// MustNewClient creates a new Redis client.
func MustNewClient() *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("FEASTLY_REDIS_HOST"), os.Getenv("FEASTLY_REDIS_PORT")),
		Password: os.Getenv("FEASTLY_REDIS_PASSWORD"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		panic(err)
	}

	return &Client{
		rdb: rdb,
	}
}
