package redis

import (
	"context"
	"fmt"

	"github.com/membify/membify-bot/internal/adapters/database/redis/locks"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Locks *locks.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	lockStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := lockStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping lock storage: %w", err)
	}

	return &Client{
		Locks: locks.NewStorage(lockStorage),
	}, nil
}
