// Package redis wraps the go-redis client used for change notifications.
package redis

import (
	"context"

	"github.com/Laisky/errors/v2"
	redisLib "github.com/redis/go-redis/v9"
)

// DB is a wrapper for go-redis
type DB struct {
	cli *redisLib.Client
}

// NewDB creates a new DB instance and verifies connectivity.
func NewDB(ctx context.Context, opt *redisLib.Options) (*DB, error) {
	cli := redisLib.NewClient(opt)
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return &DB{cli: cli}, nil
}

// Publish sends payload to the named channel.
func (d *DB) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := d.cli.Publish(ctx, channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "publish to %q", channel)
	}

	return nil
}

// Subscribe opens one subscription to the named channel.
// The caller must Close the returned PubSub when done.
func (d *DB) Subscribe(ctx context.Context, channel string) *redisLib.PubSub {
	return d.cli.Subscribe(ctx, channel)
}

// Close releases the underlying client.
func (d *DB) Close() error {
	return d.cli.Close()
}
