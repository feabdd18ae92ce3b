package domain

import "context"

// Service answers a chat turn. Calculator and registry intents come back as
// a finished Message; everything else as a StreamPlan.
type Service interface {
	Dispatch(ctx context.Context, req ChatRequest) (Reply, error)
}
