// Package ai provides the model gateway, prompt builder and response
// parser that sit between the chat session and the completion provider.
package ai

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/ai/provider"
	"github.com/platewise/v1/internal/ports/outbound"
)

// CompletionProvider is the raw provider call the gateway drives with a
// credential from the rotation pool.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt outbound.Prompt, credential string) (string, error)
}

const (
	defaultAttemptTimeout   = 30 * time.Second
	defaultTransientRetries = 2
	defaultBackoff          = 500 * time.Millisecond
)

// ModelGateway implements outbound.CompletionGateway with credential
// rotation on auth/rate-limit failures and bounded same-credential
// retries on transient ones.
type ModelGateway struct {
	provider         CompletionProvider
	rotator          *CredentialRotator
	logger           *zap.Logger
	attemptTimeout   time.Duration
	transientRetries int
	backoff          time.Duration
}

// GatewayOption configures a ModelGateway.
type GatewayOption func(*ModelGateway)

// WithAttemptTimeout overrides the per-attempt timeout.
func WithAttemptTimeout(d time.Duration) GatewayOption {
	return func(g *ModelGateway) {
		if d > 0 {
			g.attemptTimeout = d
		}
	}
}

// WithBackoff overrides the transient retry backoff base.
func WithBackoff(d time.Duration) GatewayOption {
	return func(g *ModelGateway) {
		if d >= 0 {
			g.backoff = d
		}
	}
}

// NewModelGateway creates a gateway over a provider and a credential
// rotator. The rotator is injected, never a hidden singleton, so tests
// can seed and inspect the pointer.
func NewModelGateway(p CompletionProvider, rotator *CredentialRotator, logger *zap.Logger, opts ...GatewayOption) *ModelGateway {
	g := &ModelGateway{
		provider:         p,
		rotator:          rotator,
		logger:           logger.Named("gateway"),
		attemptTimeout:   defaultAttemptTimeout,
		transientRetries: defaultTransientRetries,
		backoff:          defaultBackoff,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete sends the prompt, rotating through the pool on AUTH or
// RATE_LIMIT failures up to pool-size attempts. When every credential
// has been rejected the call fails with an AUTH error (exhausted).
func (g *ModelGateway) Complete(ctx context.Context, prompt outbound.Prompt) (string, error) {
	attempts := g.rotator.Len()
	var lastErr error

	for i := 0; i < attempts; i++ {
		credential := g.rotator.Next()

		text, err := g.completeWithRetry(ctx, prompt, credential)
		if err == nil {
			return text, nil
		}

		var perr *provider.Error
		if errors.As(err, &perr) && perr.Rotates() {
			g.logger.Warn("Credential rejected, rotating",
				zap.String("kind", string(perr.Kind)),
				zap.Int("attempt", i+1),
				zap.Int("pool_size", attempts),
			)
			lastErr = err
			continue
		}

		// Transient exhaustion and unknown failures surface as-is.
		return "", err
	}

	g.logger.Error("Credential pool exhausted", zap.Int("pool_size", attempts))
	return "", provider.NewError(provider.KindAuth, 0, "credential pool exhausted", lastErr)
}

// completeWithRetry retries the same credential on transient failures,
// up to transientRetries extra attempts with linear backoff. Each
// attempt is bounded by the per-attempt timeout; expiry counts as a
// transient failure.
func (g *ModelGateway) completeWithRetry(ctx context.Context, prompt outbound.Prompt, credential string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= g.transientRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, g.backoff*time.Duration(attempt)); err != nil {
				return "", provider.NewError(provider.KindUnknown, 0, "cancelled during backoff", err)
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		text, err := g.provider.Complete(attemptCtx, prompt, credential)
		cancel()

		if err == nil {
			return text, nil
		}

		var perr *provider.Error
		if errors.As(err, &perr) && perr.Retriable() && ctx.Err() == nil {
			g.logger.Debug("Transient provider failure, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		return "", err
	}

	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
