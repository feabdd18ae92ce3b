// Package ratelimit caps chat requests per client within a fixed window.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyKey = errors.New("rate limiter key is empty")

// RateLimiter decides whether one more request for key fits the window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Options bound every limiter implementation.
type Options struct {
	Max    int
	Window time.Duration
}

func (o Options) normalized() Options {
	if o.Max <= 0 {
		o.Max = 10
	}
	if o.Window <= 0 {
		o.Window = time.Minute
	}
	return o
}

func newResult(opts Options, count int, resetAt, now time.Time) Result {
	res := Result{
		Allowed:   count <= opts.Max,
		Limit:     opts.Max,
		Remaining: opts.Max - count,
		ResetTime: resetAt,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = resetAt.Sub(now)
		if res.RetryAfter < 0 {
			res.RetryAfter = 0
		}
	}
	return res
}
