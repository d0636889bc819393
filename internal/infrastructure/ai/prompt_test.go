package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/v1/internal/domain/conversation"
)

func turns(n int) []conversation.Turn {
	out := make([]conversation.Turn, 0, n)
	for i := 0; i < n; i++ {
		role := conversation.RoleUser
		if i%2 == 1 {
			role = conversation.RoleAssistant
		}
		out = append(out, conversation.Turn{Role: role, Text: fmt.Sprintf("turn-%d", i)})
	}
	return out
}

func TestBuildIsDeterministic(t *testing.T) {
	builder := NewPromptBuilder(testCatalog(), 5, 0.7, 512)
	history := turns(4)
	constraints := PromptConstraints{Allergies: []string{"dairy"}, Budget: 40}

	a := builder.Build(history, "what do you recommend?", constraints)
	b := builder.Build(history, "what do you recommend?", constraints)

	assert.Equal(t, a, b)
}

func TestBuildStructure(t *testing.T) {
	builder := NewPromptBuilder(testCatalog(), 5, 0.7, 512)

	prompt := builder.Build(turns(2), "two pizzas please", PromptConstraints{})

	require.Len(t, prompt.Messages, 4)
	assert.Equal(t, "system", prompt.Messages[0].Role)
	assert.Equal(t, "user", prompt.Messages[1].Role)
	assert.Equal(t, "assistant", prompt.Messages[2].Role)
	assert.Equal(t, "user", prompt.Messages[3].Role)
	assert.Equal(t, "two pizzas please", prompt.Messages[3].Content)
	assert.InDelta(t, 0.7, prompt.Temperature, 0.001)
	assert.Equal(t, 512, prompt.MaxTokens)
}

func TestBuildTruncatesOldestTurnsFirst(t *testing.T) {
	builder := NewPromptBuilder(testCatalog(), 3, 0, 0)

	prompt := builder.Build(turns(10), "and dessert?", PromptConstraints{})

	// system + 3 newest history turns + new user message
	require.Len(t, prompt.Messages, 5)
	assert.Equal(t, "turn-7", prompt.Messages[1].Content)
	assert.Equal(t, "turn-8", prompt.Messages[2].Content)
	assert.Equal(t, "turn-9", prompt.Messages[3].Content)
}

func TestSystemInstructionCarriesMenuAndContract(t *testing.T) {
	builder := NewPromptBuilder(testCatalog(), 5, 0, 0)

	prompt := builder.Build(nil, "hi", PromptConstraints{
		DietaryRestrictions: []string{"vegetarian"},
		Allergies:           []string{"nuts", "shellfish"},
		Budget:              35,
		Occasion:            "anniversary",
	})

	system := prompt.Messages[0].Content
	assert.Contains(t, system, "Margherita Pizza: 18.50")
	assert.Contains(t, system, OrderBlockStart)
	assert.Contains(t, system, OrderBlockEnd)
	assert.Contains(t, system, "vegetarian")
	assert.Contains(t, system, "nuts, shellfish")
	assert.Contains(t, system, "35.00")
	assert.Contains(t, system, "anniversary")
}

func TestDefaultsForInvalidWindowAndTokens(t *testing.T) {
	builder := NewPromptBuilder(testCatalog(), 0, 0, -1)

	assert.Equal(t, defaultMaxContextTurns, builder.MaxContextTurns())
	prompt := builder.Build(nil, "hi", PromptConstraints{})
	assert.Equal(t, 1024, prompt.MaxTokens)
}
