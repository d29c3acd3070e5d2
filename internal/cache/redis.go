// Package cache keeps the latest board snapshot in Redis so read-heavy
// consumers can fetch board state without opening a session.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Client wraps the Redis client for board snapshot caching.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// New connects to Redis and verifies the connection with a bounded ping.
func New(addr, password string, db int, ttl time.Duration, log zerolog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info().Str("addr", addr).Msg("redis connected")
	return &Client{rdb: rdb, ttl: ttl, log: log}, nil
}

func snapshotKey(boardID string) string {
	return "board:" + boardID + ":snapshot"
}

// SetBoardSnapshot stores the serialized object set with the configured TTL.
func (c *Client) SetBoardSnapshot(ctx context.Context, boardID string, data []byte) error {
	return c.rdb.Set(ctx, snapshotKey(boardID), data, c.ttl).Err()
}

// GetBoardSnapshot returns the cached snapshot, or (nil, false, nil) on a
// cache miss.
func (c *Client) GetBoardSnapshot(ctx context.Context, boardID string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(boardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// InvalidateBoard drops the cached snapshot.
func (c *Client) InvalidateBoard(ctx context.Context, boardID string) error {
	return c.rdb.Del(ctx, snapshotKey(boardID)).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
