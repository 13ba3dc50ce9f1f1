package storage

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// keyPrefix namespaces every key written to shared servers.
const keyPrefix = "assetcanvas:"

// Redis stores a msgpack snapshot under a single key. It suits deployments
// where several server instances share one enterprise.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to addr, which is either "host:port" or a
// redis:// URL, and verifies the connection with PING.
func NewRedis(ctx context.Context, addr, key string) (*Redis, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opts, err = redis.ParseURL(addr); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "redis url")
		}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect redis %s", opts.Addr)
	}
	return NewRedisClient(client, key), nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: keyPrefix + key}
}

// Load reads and decodes the snapshot.
func (r *Redis) Load(ctx context.Context) (*hierarchy.Enterprise, error) {
	var data []byte
	err := withRetry(ctx, func() error {
		var err error
		data, err = r.client.Get(ctx, r.key).Bytes()
		if err != nil && err != redis.Nil {
			return Retryable(err)
		}
		return err
	})
	if err == redis.Nil {
		return nil, notFound("redis", r.key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "redis get %s", r.key)
	}

	s, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return checked(s.Enterprise, "redis")
}

// Save encodes and writes the snapshot without expiry.
func (r *Redis) Save(ctx context.Context, e *hierarchy.Enterprise) error {
	data, err := encodeSnapshot(Snapshot{Enterprise: e, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	err = withRetry(ctx, func() error {
		return Retryable(r.client.Set(ctx, r.key, data, 0).Err())
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "redis set %s", r.key)
	}
	return nil
}

// Clear deletes the key.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "redis del %s", r.key)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error { return r.client.Close() }

// Name returns "redis".
func (r *Redis) Name() string { return "redis" }

// Ensure Redis implements Backend.
var _ Backend = (*Redis)(nil)
