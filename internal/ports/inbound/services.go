// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
package inbound

import (
	"context"

	"github.com/platewise/v1/internal/domain/conversation"
	"github.com/platewise/v1/internal/domain/order"
	"github.com/platewise/v1/internal/domain/recommendation"
)

// ChatService drives conversational sessions and their running orders.
type ChatService interface {
	// Send delivers a user message to the session and returns the
	// assistant turn, synthetic on gateway failure. Sends on the same
	// session are strictly serialized.
	Send(ctx context.Context, sessionID string, text string) (conversation.Turn, error)

	// History returns the session's turns in insertion order.
	History(ctx context.Context, sessionID string) ([]conversation.Turn, error)

	// Reset atomically clears the session's turn history.
	Reset(ctx context.Context, sessionID string) error

	// Order returns a point-in-time view of the session's running order.
	Order(ctx context.Context, sessionID string) (order.Snapshot, error)

	// ClearOrder empties the running order on submit or cancel.
	ClearOrder(ctx context.Context, sessionID string) error
}

// RecommendationService runs the network-free rule-based path:
// context in, deterministic ranked list out, memoized by fingerprint.
type RecommendationService interface {
	Recommend(ctx context.Context, req recommendation.Request, rctx recommendation.Context) ([]recommendation.Recommendation, error)
}
