package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, " req-1 ")
	ctx = WithSessionID(ctx, "sess")
	ctx = WithClientIP(ctx, "10.0.0.1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "sess", SessionIDFromContext(ctx))
	assert.Equal(t, "10.0.0.1", ClientIPFromContext(ctx))
	assert.Empty(t, SessionIDFromContext(nil))
}
