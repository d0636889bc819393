package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/conversation"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/order"
	"github.com/platewise/v1/internal/infrastructure/ai"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
)

// historyBlob is the persisted shape of a session's conversation.
type historyBlob struct {
	SessionID string              `json:"session_id"`
	Turns     []conversation.Turn `json:"turns"`
}

// Service implements inbound.ChatService: a registry of live sessions
// plus best-effort persistence of history and order drafts as opaque
// JSON blobs in the key-value collaborator.
type Service struct {
	gateway  outbound.CompletionGateway
	builder  *ai.PromptBuilder
	parser   *ai.ResponseParser
	catalog  *menu.Catalog
	store    outbound.KVStore
	currency string
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates the chat service.
func NewService(
	gateway outbound.CompletionGateway,
	builder *ai.PromptBuilder,
	parser *ai.ResponseParser,
	catalog *menu.Catalog,
	store outbound.KVStore,
	currency string,
	logger *zap.Logger,
) *Service {
	return &Service{
		gateway:  gateway,
		builder:  builder,
		parser:   parser,
		catalog:  catalog,
		store:    store,
		currency: currency,
		logger:   logger.Named("chat-service"),
		sessions: make(map[string]*Session),
	}
}

var _ inbound.ChatService = (*Service)(nil)

func historyKey(sessionID string) string { return "chat:history:" + sessionID }
func orderKey(sessionID string) string   { return "chat:order:" + sessionID }

// session returns the live session, opening it (and restoring any
// persisted history) on first use.
func (s *Service) session(ctx context.Context, sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}

	sess := NewSession(sessionID, s.gateway, s.builder, s.parser, s.catalog, s.currency, ai.PromptConstraints{}, s.logger)

	if blob, err := s.store.Get(ctx, historyKey(sessionID)); err == nil {
		var stored historyBlob
		if err := json.Unmarshal(blob, &stored); err == nil {
			sess.Restore(stored.Turns)
		} else {
			s.logger.Warn("Discarding unreadable history blob",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	} else if !errors.Is(err, outbound.ErrKeyNotFound) {
		s.logger.Warn("Failed to load history blob",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	s.sessions[sessionID] = sess
	return sess
}

// Send delivers a message to the session and persists the updated
// history and order draft afterwards. Persistence is best-effort: a
// storage failure is logged and never fails the send.
func (s *Service) Send(ctx context.Context, sessionID string, text string) (conversation.Turn, error) {
	sess := s.session(ctx, sessionID)

	turn, err := sess.Send(ctx, text)
	if err != nil {
		return conversation.Turn{}, err
	}

	s.persist(ctx, sess)
	return turn, nil
}

func (s *Service) persist(ctx context.Context, sess *Session) {
	blob, err := json.Marshal(historyBlob{SessionID: sess.ID(), Turns: sess.History()})
	if err != nil {
		s.logger.Error("Failed to marshal history blob", zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, historyKey(sess.ID()), blob); err != nil {
		s.logger.Warn("Failed to persist history blob", zap.Error(err))
	}

	snapshot, err := json.Marshal(sess.Order().Snapshot())
	if err != nil {
		s.logger.Error("Failed to marshal order draft", zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, orderKey(sess.ID()), snapshot); err != nil {
		s.logger.Warn("Failed to persist order draft", zap.Error(err))
	}
}

// History returns the session's turns in insertion order.
func (s *Service) History(ctx context.Context, sessionID string) ([]conversation.Turn, error) {
	return s.session(ctx, sessionID).History(), nil
}

// Reset clears the session's history and removes the persisted blob.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	sess := s.session(ctx, sessionID)
	sess.Reset()

	if err := s.store.Delete(ctx, historyKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete history blob: %w", err)
	}
	return nil
}

// Order returns a point-in-time view of the session's running order.
func (s *Service) Order(ctx context.Context, sessionID string) (order.Snapshot, error) {
	return s.session(ctx, sessionID).Order().Snapshot(), nil
}

// ClearOrder empties the running order on submit or explicit cancel.
func (s *Service) ClearOrder(ctx context.Context, sessionID string) error {
	sess := s.session(ctx, sessionID)
	sess.Order().Clear()

	if err := s.store.Delete(ctx, orderKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete order draft: %w", err)
	}
	return nil
}

// Close stops every live session worker.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
