package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow counts requests per key in process memory. The first request
// for a key opens a window; the count resets once the window has passed.
type FixedWindow struct {
	opts Options
	now  func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewFixedWindow(opts Options) *FixedWindow {
	return &FixedWindow{
		opts:    opts.normalized(),
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Result{}, ErrEmptyKey
	}

	now := f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(f.opts.Window)}
		f.windows[key] = w
	}
	w.count++

	return newResult(f.opts, w.count, w.resetAt, now), nil
}

// Sweep drops expired windows and returns how many were removed.
func (f *FixedWindow) Sweep() int {
	now := f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	for key, w := range f.windows {
		if !now.Before(w.resetAt) {
			delete(f.windows, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every window length until ctx is done.
func (f *FixedWindow) Run(ctx context.Context) {
	ticker := time.NewTicker(f.opts.Window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.Sweep()
		}
	}
}
