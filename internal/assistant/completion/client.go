// Package completion streams chat completions from an OpenAI-compatible API.
package completion

import (
	"context"
	"errors"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("completion client not configured")

type Message struct {
	Role    string
	Content string
}

type Request struct {
	Model     string
	MaxTokens int
	Messages  []Message
}

// Stream yields content deltas. Recv returns io.EOF after the last delta.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Client opens completion streams. Implementations must honour ctx
// cancellation while the stream is open.
type Client interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}
