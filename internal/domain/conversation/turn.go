// Package conversation contains the conversation turn model shared by
// the chat session, prompt builder and persistence layers.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/order"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnType distinguishes normal replies from synthetic error turns.
type TurnType string

const (
	TurnTypeMessage TurnType = "message"
	TurnTypeError   TurnType = "error"
)

// Turn is one exchange unit. Turns are immutable once created and
// appended in insertion order; that order defines the context window.
type Turn struct {
	ID        uuid.UUID     `json:"id"`
	Role      Role          `json:"role"`
	Type      TurnType      `json:"type"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"created_at"`
	Intent    *order.Intent `json:"intent,omitempty"`
}

// NewUserTurn creates a user turn.
func NewUserTurn(text string) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      RoleUser,
		Type:      TurnTypeMessage,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn, optionally carrying the
// order intent extracted from the reply.
func NewAssistantTurn(text string, intent *order.Intent) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      RoleAssistant,
		Type:      TurnTypeMessage,
		Text:      text,
		CreatedAt: time.Now(),
		Intent:    intent,
	}
}

// NewErrorTurn creates the synthetic assistant turn returned when the
// gateway fails. Raw provider detail never appears in Text.
func NewErrorTurn(text string) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      RoleAssistant,
		Type:      TurnTypeError,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
