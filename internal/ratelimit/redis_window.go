package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter and starts the expiry on the first
// hit so every replica shares one window per key.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`

// RedisFixedWindow shares the window across processes through redis.
type RedisFixedWindow struct {
	client redis.UniversalClient
	script *redis.Script
	opts   Options
	prefix string
	now    func() time.Time
}

func NewRedisFixedWindow(client redis.UniversalClient, opts Options) *RedisFixedWindow {
	return &RedisFixedWindow{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		opts:   opts.normalized(),
		prefix: "tariffdesk:ratelimit:",
		now:    time.Now,
	}
}

func (r *RedisFixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	if r == nil || r.client == nil {
		return Result{}, errors.New("rate limiter not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Result{}, ErrEmptyKey
	}

	res, err := r.script.Run(ctx, r.client, []string{r.prefix + key}, r.opts.Window.Milliseconds()).Slice()
	if err != nil {
		return Result{}, err
	}
	if len(res) < 2 {
		return Result{}, errors.New("invalid rate limit script response")
	}

	count, _ := res[0].(int64)
	ttl, _ := res[1].(int64)
	now := r.now()
	return newResult(r.opts, int(count), now.Add(time.Duration(ttl)*time.Millisecond), now), nil
}
