package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ratelimit:contact:"

// allowScript opens a window on the first hit and refuses to count past the
// limit. Returns {allowed, count, pttl}.
var allowScript = redis.NewScript(`
local count = tonumber(redis.call("GET", KEYS[1]) or "0")
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
if count == 0 then
  redis.call("SET", KEYS[1], 1, "PX", window)
  return {1, 1, window}
end
local ttl = redis.call("PTTL", KEYS[1])
if count >= limit then
  return {0, count, ttl}
end
count = redis.call("INCR", KEYS[1])
return {1, count, ttl}
`)

// Redis is a Limiter shared across instances. Window expiry is delegated to
// key TTLs, so no sweep is needed.
type Redis struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedis creates a Redis-backed limiter with the same semantics as
// SlidingWindow.
func NewRedis(client redis.UniversalClient, limit int, window time.Duration) *Redis {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{
		client: client,
		limit:  limit,
		window: window,
		prefix: defaultKeyPrefix,
		now:    time.Now,
	}
}

// NewRedisFromURL parses a redis:// URL and builds the limiter.
func NewRedisFromURL(url string, limit int, window time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedis(redis.NewClient(opts), limit, window), nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, id string) (Status, error) {
	res, err := allowScript.Run(ctx, r.client, []string{r.prefix + id}, r.limit, r.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Status{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Status{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	count := int(res[1])
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Allowed:   res[0] == 1,
		Limit:     r.limit,
		Count:     count,
		Remaining: remaining,
		ResetAt:   r.resetAt(time.Duration(res[2]) * time.Millisecond),
	}, nil
}

// Status implements Limiter.
func (r *Redis) Status(ctx context.Context, id string) (Status, error) {
	key := r.prefix + id

	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Status{}, fmt.Errorf("rate limit status: %w", err)
	}

	count, err := getCmd.Int()
	if err == redis.Nil {
		return Status{
			Allowed:   true,
			Limit:     r.limit,
			Remaining: r.limit,
			ResetAt:   r.now().Add(r.window),
		}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("rate limit status: %w", err)
	}

	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Allowed:   remaining > 0,
		Limit:     r.limit,
		Count:     count,
		Remaining: remaining,
		ResetAt:   r.resetAt(ttlCmd.Val()),
	}, nil
}

func (r *Redis) resetAt(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = r.window
	}
	return r.now().Add(ttl)
}
