package ai

import (
	"fmt"
	"strings"

	"github.com/platewise/v1/internal/domain/conversation"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/ports/outbound"
)

// Sentinels delimiting the structured order block the model is asked to
// emit. The parser prefers this block and tolerates its absence.
const (
	OrderBlockStart = "<<ORDER>>"
	OrderBlockEnd   = "<<END>>"
)

const defaultMaxContextTurns = 5

// PromptConstraints carries the diner's stated constraints into the
// system instruction.
type PromptConstraints struct {
	DietaryRestrictions []string
	Allergies           []string
	Budget              float64
	Occasion            string
}

// PromptBuilder turns history plus a new user message into a
// model-ready payload. It is deterministic: identical inputs always
// produce identical output, with no clock or randomness involved.
type PromptBuilder struct {
	catalog         *menu.Catalog
	maxContextTurns int
	temperature     float64
	maxTokens       int
}

// NewPromptBuilder creates a prompt builder over the menu catalog.
// maxContextTurns bounds the history window; values below 1 fall back
// to the default of 5.
func NewPromptBuilder(catalog *menu.Catalog, maxContextTurns int, temperature float64, maxTokens int) *PromptBuilder {
	if maxContextTurns < 1 {
		maxContextTurns = defaultMaxContextTurns
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &PromptBuilder{
		catalog:         catalog,
		maxContextTurns: maxContextTurns,
		temperature:     temperature,
		maxTokens:       maxTokens,
	}
}

// MaxContextTurns returns the configured history window.
func (b *PromptBuilder) MaxContextTurns() int {
	return b.maxContextTurns
}

// Build assembles the payload: fixed system instruction with the menu
// catalog and order-block contract, the newest maxContextTurns turns
// (oldest dropped first), then the new user message.
func (b *PromptBuilder) Build(history []conversation.Turn, userText string, constraints PromptConstraints) outbound.Prompt {
	messages := make([]outbound.ChatMessage, 0, b.maxContextTurns+2)
	messages = append(messages, outbound.ChatMessage{
		Role:    "system",
		Content: b.systemInstruction(constraints),
	})

	if len(history) > b.maxContextTurns {
		history = history[len(history)-b.maxContextTurns:]
	}
	for _, turn := range history {
		messages = append(messages, outbound.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Text,
		})
	}

	messages = append(messages, outbound.ChatMessage{
		Role:    "user",
		Content: userText,
	})

	return outbound.Prompt{
		Messages:    messages,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}
}

// systemInstruction builds the fixed instruction plus the closed menu
// vocabulary so downstream parsing can validate order intents.
func (b *PromptBuilder) systemInstruction(constraints PromptConstraints) string {
	var sb strings.Builder

	sb.WriteString("You are the ordering assistant for a restaurant. ")
	sb.WriteString("Help the guest choose from the menu below, answer questions about dishes, ")
	sb.WriteString("and keep replies short and friendly.\n\n")

	sb.WriteString("MENU (only these items exist, prices are fixed):\n")
	for _, item := range b.catalog.Items() {
		fmt.Fprintf(&sb, "- %s: %.2f\n", item.Name, item.Price)
	}

	sb.WriteString("\nWhen the guest asks to order one or more items, append the order as a JSON object between ")
	sb.WriteString(OrderBlockStart)
	sb.WriteString(" and ")
	sb.WriteString(OrderBlockEnd)
	sb.WriteString(" after your reply, in exactly this shape:\n")
	sb.WriteString(OrderBlockStart)
	sb.WriteString(`{"items":[{"name":"Margherita Pizza","quantity":1,"unit_price":18.50}]}`)
	sb.WriteString(OrderBlockEnd)
	sb.WriteString("\nUse exact menu item names. Never invent items or change prices. ")
	sb.WriteString("Omit the block entirely when nothing is being ordered.")

	if len(constraints.DietaryRestrictions) > 0 {
		fmt.Fprintf(&sb, "\n\nDietary restrictions: %s", strings.Join(constraints.DietaryRestrictions, ", "))
	}
	if len(constraints.Allergies) > 0 {
		fmt.Fprintf(&sb, "\nAllergies, never suggest dishes containing: %s", strings.Join(constraints.Allergies, ", "))
	}
	if constraints.Budget > 0 {
		fmt.Fprintf(&sb, "\nBudget per person: %.2f", constraints.Budget)
	}
	if constraints.Occasion != "" {
		fmt.Fprintf(&sb, "\nOccasion: %s", constraints.Occasion)
	}

	return sb.String()
}
