// Package chat provides the conversational session state machine and
// the session-registry service above it.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/conversation"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/order"
	"github.com/platewise/v1/internal/infrastructure/ai"
	"github.com/platewise/v1/internal/ports/outbound"
)

// ErrEmptyInput rejects empty or whitespace-only message text.
var ErrEmptyInput = errors.New("message text must not be empty")

// ErrSessionClosed is returned for sends on a closed session.
var ErrSessionClosed = errors.New("session is closed")

// errorReplyText is the user-facing apology carried by the synthetic
// assistant turn. Raw provider errors never reach the UI.
const errorReplyText = "Sorry, I couldn't reach the kitchen assistant just now. Please try again in a moment."

// State is the session's observable lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
	StateError   State = "error"
)

type sendRequest struct {
	ctx    context.Context
	text   string
	result chan sendResult
}

type sendResult struct {
	turn conversation.Turn
	err  error
}

// Session owns one conversation: its ordered turn history and running
// order. Sends are strictly serialized through a single worker
// goroutine so turn order always matches arrival order, even under
// rapid repeated submission. A session belongs to the caller that
// created it and is never shared across widgets.
type Session struct {
	id          string
	gateway     outbound.CompletionGateway
	builder     *ai.PromptBuilder
	parser      *ai.ResponseParser
	catalog     *menu.Catalog
	constraints ai.PromptConstraints
	logger      *zap.Logger

	mu    sync.Mutex
	turns []conversation.Turn
	state State
	order *order.Order

	queue     chan *sendRequest
	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewSession creates a session and starts its send worker.
func NewSession(
	id string,
	gateway outbound.CompletionGateway,
	builder *ai.PromptBuilder,
	parser *ai.ResponseParser,
	catalog *menu.Catalog,
	currency string,
	constraints ai.PromptConstraints,
	logger *zap.Logger,
) *Session {
	s := &Session{
		id:          id,
		gateway:     gateway,
		builder:     builder,
		parser:      parser,
		catalog:     catalog,
		constraints: constraints,
		logger:      logger.Named("session").With(zap.String("session_id", id)),
		state:       StateIdle,
		order:       order.NewOrder(currency),
		queue:       make(chan *sendRequest, 16),
		closed:      make(chan struct{}),
		done:        make(chan struct{}),
	}
	go s.worker()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Order returns the session's running order.
func (s *Session) Order() *order.Order {
	return s.order
}

// Send queues the message and blocks until the session's worker has
// processed it. Concurrent sends on the same session are executed one
// at a time in arrival order; they are queued, never dropped.
//
// Cancelling ctx aborts the in-flight provider call and discards the
// result; the user turn for the cancelled attempt is still retained so
// the user's text isn't lost, but no assistant turn is appended.
func (s *Session) Send(ctx context.Context, text string) (conversation.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return conversation.Turn{}, ErrEmptyInput
	}

	req := &sendRequest{
		ctx:    ctx,
		text:   text,
		result: make(chan sendResult, 1),
	}

	select {
	case s.queue <- req:
	case <-s.closed:
		return conversation.Turn{}, ErrSessionClosed
	case <-ctx.Done():
		return conversation.Turn{}, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res.turn, res.err
	case <-s.done:
		// The worker exited; it may have answered just before stopping,
		// or the request may have slipped past the close-time drain.
		select {
		case res := <-req.result:
			return res.turn, res.err
		default:
			return conversation.Turn{}, ErrSessionClosed
		}
	case <-ctx.Done():
		// The worker still appends the user turn for this attempt.
		return conversation.Turn{}, ctx.Err()
	}
}

// worker drains the queue one request at a time.
func (s *Session) worker() {
	defer close(s.done)
	for {
		select {
		case req := <-s.queue:
			req.result <- s.process(req)
		case <-s.closed:
			// Drain anything already queued so no send blocks forever.
			for {
				select {
				case req := <-s.queue:
					req.result <- sendResult{err: ErrSessionClosed}
				default:
					return
				}
			}
		}
	}
}

// process runs one send end to end, from prompt build through gateway
// call, parse and history append.
func (s *Session) process(req *sendRequest) sendResult {
	s.setState(StateSending)

	userTurn := conversation.NewUserTurn(req.text)

	// A send cancelled while still queued keeps its user turn.
	if err := req.ctx.Err(); err != nil {
		s.appendTurns(userTurn)
		s.setState(StateIdle)
		return sendResult{err: err}
	}

	prompt := s.builder.Build(s.History(), req.text, s.constraints)

	raw, err := s.gateway.Complete(req.ctx, prompt)
	if err != nil {
		s.appendTurns(userTurn)

		if req.ctx.Err() != nil {
			// Caller cancelled: discard the result entirely.
			s.setState(StateIdle)
			return sendResult{err: req.ctx.Err()}
		}

		s.logger.Warn("Gateway call failed, returning synthetic reply", zap.Error(err))
		s.setState(StateError)
		s.setState(StateIdle)
		return sendResult{turn: conversation.NewErrorTurn(errorReplyText)}
	}

	parsed := s.parser.Parse(raw, s.catalog)
	for _, diag := range parsed.Diagnostics {
		s.logger.Info("Parse diagnostic",
			zap.String("kind", string(diag.Kind)),
			zap.String("item", diag.Item),
			zap.String("detail", diag.Detail),
		)
	}

	assistantTurn := conversation.NewAssistantTurn(parsed.ReplyText, parsed.Intent)
	s.appendTurns(userTurn, assistantTurn)

	if parsed.Intent != nil {
		if err := s.order.ApplyIntent(parsed.Intent, s.catalog); err != nil {
			s.logger.Error("Failed to apply order intent", zap.Error(err))
		}
	}

	s.setState(StateIdle)
	return sendResult{turn: assistantTurn}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) appendTurns(turns ...conversation.Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turns...)
	s.mu.Unlock()
}

// History returns a copy of the turn list in insertion order.
func (s *Session) History() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]conversation.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Restore seeds history from a persisted blob. Intended for session
// re-open; it replaces whatever is present.
func (s *Session) Restore(turns []conversation.Turn) {
	s.mu.Lock()
	s.turns = append([]conversation.Turn(nil), turns...)
	s.mu.Unlock()
}

// Reset atomically clears the turn history.
func (s *Session) Reset() {
	s.mu.Lock()
	s.turns = nil
	s.state = StateIdle
	s.mu.Unlock()
}

// Close stops the worker. Queued sends fail with ErrSessionClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	<-s.done
}
