// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/platewise/v1/internal/domain/recommendation"
)

// ChatMessage is one message of a completion prompt.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a model-ready instruction payload.
type Prompt struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// CompletionGateway sends a prompt to the external completion provider
// and returns the raw reply text. Failures carry a provider error kind;
// retry and credential rotation happen behind this interface.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ErrKeyNotFound is returned by KVStore.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the opaque key-value persistence collaborator. The engine
// stores session history and order drafts as JSON blobs and assumes
// nothing about the backing store.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RecommendationCache memoizes scored recommendation results keyed by a
// normalized request fingerprint. Expired entries read as absent.
type RecommendationCache interface {
	Get(req recommendation.Request) ([]recommendation.Recommendation, bool)
	Put(req recommendation.Request, recs []recommendation.Recommendation, ttl time.Duration)
}
