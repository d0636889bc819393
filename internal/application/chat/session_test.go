package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/conversation"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/infrastructure/ai"
	"github.com/platewise/v1/internal/infrastructure/ai/provider"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/test/testutils"
)

// fakeGateway replies from a scripted function, serialized like the real
// gateway's provider calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls int
	reply func(call int, prompt outbound.Prompt) (string, error)
}

func (f *fakeGateway) Complete(ctx context.Context, prompt outbound.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.reply(call, prompt)
}

type SessionTestSuite struct {
	suite.Suite
	catalog *menu.Catalog
	builder *ai.PromptBuilder
	parser  *ai.ResponseParser
}

func (s *SessionTestSuite) SetupTest() {
	s.catalog = menu.NewCatalog([]menu.Item{
		{Name: "Margherita Pizza", Price: 18.50, Category: "mains"},
		{Name: "Tiramisu", Price: 9.50, Category: "desserts"},
	})
	s.builder = ai.NewPromptBuilder(s.catalog, 5, 0, 0)
	s.parser = ai.NewResponseParser(zap.NewNop())
}

func (s *SessionTestSuite) newSession(gw outbound.CompletionGateway) *Session {
	return NewSession("test-session", gw, s.builder, s.parser, s.catalog, "USD", ai.PromptConstraints{}, zap.NewNop())
}

func (s *SessionTestSuite) TestSendAppendsUserAndAssistantTurns() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "You can't go wrong with the pizza.", nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	turn, err := sess.Send(context.Background(), "what's good here?")
	s.Require().NoError(err)
	s.Equal(conversation.RoleAssistant, turn.Role)
	s.Equal(conversation.TurnTypeMessage, turn.Type)

	history := sess.History()
	s.Require().Len(history, 2)
	s.Equal(conversation.RoleUser, history[0].Role)
	s.Equal("what's good here?", history[0].Text)
	s.Equal("You can't go wrong with the pizza.", history[1].Text)
}

func (s *SessionTestSuite) TestSendRejectsEmptyInput() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "should not happen", nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	_, err := sess.Send(context.Background(), "   \t\n")
	s.ErrorIs(err, ErrEmptyInput)
	s.Empty(sess.History())
	s.Zero(gw.calls)
}

func (s *SessionTestSuite) TestConcurrentSendsAreSerialized() {
	gw := &fakeGateway{reply: func(_ int, prompt outbound.Prompt) (string, error) {
		// Echo the newest user message so replies pair with requests.
		last := prompt.Messages[len(prompt.Messages)-1]
		return "reply to " + last.Content, nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := sess.Send(context.Background(), fmt.Sprintf("message-%d", i))
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	history := sess.History()
	s.Require().Len(history, 2*n)
	for i := 0; i < len(history); i += 2 {
		s.Equal(conversation.RoleUser, history[i].Role)
		s.Equal(conversation.RoleAssistant, history[i+1].Role)
		s.Equal("reply to "+history[i].Text, history[i+1].Text)
	}
}

func (s *SessionTestSuite) TestGatewayFailureYieldsSyntheticErrorTurn() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "", provider.NewError(provider.KindAuth, 0, "credential pool exhausted", nil)
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	turn, err := sess.Send(context.Background(), "hello?")
	s.Require().NoError(err)
	s.Equal(conversation.TurnTypeError, turn.Type)
	s.Equal(conversation.RoleAssistant, turn.Role)
	s.NotContains(turn.Text, "credential", "provider detail must not leak to the user")

	// Only the user turn is kept; the synthetic reply stays out of history.
	history := sess.History()
	s.Require().Len(history, 1)
	s.Equal(conversation.RoleUser, history[0].Role)
}

func (s *SessionTestSuite) TestFailedSendDoesNotPoisonNextSend() {
	gw := &fakeGateway{reply: func(call int, _ outbound.Prompt) (string, error) {
		if call == 1 {
			return "", provider.NewError(provider.KindTransient, 503, "down", nil)
		}
		return "back online", nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	first, err := sess.Send(context.Background(), "anyone there?")
	s.Require().NoError(err)
	s.Equal(conversation.TurnTypeError, first.Type)

	second, err := sess.Send(context.Background(), "hello again")
	s.Require().NoError(err)
	s.Equal(conversation.TurnTypeMessage, second.Type)
	s.Equal("back online", second.Text)

	// user, user, assistant: the failed attempt kept its user turn.
	s.Len(sess.History(), 3)
}

// blockingGateway parks until the caller cancels.
type blockingGateway struct {
	started chan struct{}
}

func (g *blockingGateway) Complete(ctx context.Context, _ outbound.Prompt) (string, error) {
	close(g.started)
	<-ctx.Done()
	return "", ctx.Err()
}

func (s *SessionTestSuite) TestCancelledSendKeepsUserTurn() {
	gw := &blockingGateway{started: make(chan struct{})}
	sess := s.newSession(gw)
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := sess.Send(ctx, "never mind")
		errCh <- err
	}()

	<-gw.started
	cancel()

	s.ErrorIs(<-errCh, context.Canceled)

	// The worker may still be appending; give it a beat.
	s.Eventually(func() bool {
		history := sess.History()
		return len(history) == 1 && history[0].Role == conversation.RoleUser
	}, time.Second, 10*time.Millisecond)
}

func (s *SessionTestSuite) TestOrderIntentIsApplied() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "Added!\n" + ai.OrderBlockStart +
			`{"items":[{"name":"Margherita Pizza","quantity":2,"unit_price":18.50}]}` +
			ai.OrderBlockEnd, nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	turn, err := sess.Send(context.Background(), "two pizzas please")
	s.Require().NoError(err)
	s.Require().NotNil(turn.Intent)
	s.Equal("Added!", turn.Text)

	lines := sess.Order().Lines()
	s.Require().Len(lines, 1)
	s.Equal(2, lines[0].Quantity)
	s.InDelta(37.00, sess.Order().Total(), 0.001)
}

func (s *SessionTestSuite) TestResetClearsHistoryButNotOrder() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "Added!\n" + ai.OrderBlockStart +
			`{"items":[{"name":"Tiramisu","quantity":1,"unit_price":9.50}]}` +
			ai.OrderBlockEnd, nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	_, err := sess.Send(context.Background(), "one tiramisu")
	s.Require().NoError(err)

	sess.Reset()

	s.Empty(sess.History())
	s.Equal(1, sess.Order().Len())
	s.Equal(StateIdle, sess.State())
}

func (s *SessionTestSuite) TestSendAfterCloseFails() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "ok", nil
	}}

	// The post-close select race only shows up across repeated runs:
	// the enqueue can win against the closed channel, so the result
	// wait must also observe worker exit.
	for i := 0; i < 50; i++ {
		sess := s.newSession(gw)
		sess.Close()

		result := make(chan error, 1)
		go func() {
			_, err := sess.Send(context.Background(), "hello")
			result <- err
		}()

		select {
		case err := <-result:
			s.ErrorIs(err, ErrSessionClosed)
		case <-time.After(time.Second):
			s.FailNow("send did not return after close")
		}
	}
}

func (s *SessionTestSuite) TestCloseRacingSendNeverHangs() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "ok", nil
	}}

	for i := 0; i < 50; i++ {
		sess := s.newSession(gw)

		result := make(chan error, 1)
		go func() {
			_, err := sess.Send(context.Background(), "hello")
			result <- err
		}()
		go sess.Close()

		select {
		case err := <-result:
			if err != nil {
				s.ErrorIs(err, ErrSessionClosed)
			}
		case <-time.After(time.Second):
			s.FailNow("send did not return during close")
		}
	}
}

func (s *SessionTestSuite) TestRestoreSeedsHistory() {
	gw := &fakeGateway{reply: func(int, outbound.Prompt) (string, error) {
		return "ok", nil
	}}
	sess := s.newSession(gw)
	defer sess.Close()

	restored := testutils.NewFactory(7).Exchange()
	sess.Restore(restored)

	history := sess.History()
	s.Require().Len(history, 2)
	s.Equal(conversation.RoleUser, history[0].Role)
	s.Equal(restored[0].Text, history[0].Text)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
