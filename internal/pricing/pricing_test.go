package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/backend/internal/llm"
)

func TestAccountant_Cost(t *testing.T) {
	accountant := NewAccountant(nil, 0)

	t.Run("Known model uses its rate", func(t *testing.T) {
		// gpt-4: 0.03 prompt / 0.06 completion per 1K tokens.
		cost := accountant.Cost("openai", "gpt-4", 1000, 500)
		assert.InDelta(t, 0.06, cost, 1e-9)
	})

	t.Run("Dated release inherits the family rate by longest prefix", func(t *testing.T) {
		base := accountant.Cost("openai", "gpt-4o", 100, 50)
		dated := accountant.Cost("openai", "gpt-4o-2024-08-06", 100, 50)
		assert.InDelta(t, base, dated, 1e-9)

		// gpt-4o-mini must match its own rate, not the shorter gpt-4o prefix.
		mini := accountant.Cost("openai", "gpt-4o-mini", 1000, 1000)
		assert.InDelta(t, 0.00015+0.0006, mini, 1e-9)
	})

	t.Run("Unknown model costs zero", func(t *testing.T) {
		assert.Zero(t, accountant.Cost("openai", "some-future-model", 1000, 1000))
	})

	t.Run("Unknown provider costs zero", func(t *testing.T) {
		assert.Zero(t, accountant.Cost("ollama", "llama3", 1000, 1000))
	})

	t.Run("Provider lookup is case-insensitive", func(t *testing.T) {
		assert.Greater(t, accountant.Cost("Anthropic", "claude-3-opus", 1000, 0), 0.0)
	})

	t.Run("Custom table overrides defaults", func(t *testing.T) {
		custom := NewAccountant(Table{
			"openai": {"gpt-4": {PromptPer1K: 1, CompletionPer1K: 2}},
		}, 0)
		assert.InDelta(t, 3.0, custom.Cost("openai", "gpt-4", 1000, 1000), 1e-9)
	})

	t.Run("Fractional token counts", func(t *testing.T) {
		custom := NewAccountant(Table{
			"openai": {"gpt-4": {PromptPer1K: 0.01, CompletionPer1K: 0.03}},
		}, 0)
		assert.InDelta(t, 0.0025, custom.Cost("openai", "gpt-4", 100, 50), 1e-9)
	})
}

func TestAccountant_EstimateTokens(t *testing.T) {
	accountant := NewAccountant(nil, 4)

	assert.Equal(t, 0, accountant.EstimateTokens(""))
	// Rounds up: 1 character is still 1 token.
	assert.Equal(t, 1, accountant.EstimateTokens("a"))
	assert.Equal(t, 1, accountant.EstimateTokens("abcd"))
	assert.Equal(t, 2, accountant.EstimateTokens("abcde"))
	assert.Equal(t, 25, accountant.EstimateTokens(string(make([]byte, 100))))

	// A different divisor changes the estimate.
	coarse := NewAccountant(nil, 10)
	assert.Equal(t, 10, coarse.EstimateTokens(string(make([]byte, 100))))
}

func TestAccountant_Account(t *testing.T) {
	accountant := NewAccountant(nil, 4)

	t.Run("Reported usage is taken as-is", func(t *testing.T) {
		usage := accountant.Account("openai", "gpt-4", &llm.Usage{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		}, "ignored prompt", "ignored completion")

		require.NotNil(t, usage)
		assert.Equal(t, 100, usage.PromptTokens)
		assert.Equal(t, 50, usage.CompletionTokens)
		assert.Equal(t, 150, usage.TotalTokens)
		assert.False(t, usage.Estimated)
		// 100/1000*0.03 + 50/1000*0.06
		assert.InDelta(t, 0.006, usage.Cost, 1e-9)
	})

	t.Run("Missing total is derived", func(t *testing.T) {
		usage := accountant.Account("openai", "gpt-4", &llm.Usage{
			PromptTokens:     10,
			CompletionTokens: 5,
		}, "", "")
		assert.Equal(t, 15, usage.TotalTokens)
	})

	t.Run("Nil usage falls back to estimation", func(t *testing.T) {
		prompt := "What is the capital of France?" // 30 chars -> 8 tokens
		completion := "Paris."                     // 6 chars -> 2 tokens
		usage := accountant.Account("openai", "gpt-4", nil, prompt, completion)

		assert.Equal(t, 8, usage.PromptTokens)
		assert.Equal(t, 2, usage.CompletionTokens)
		assert.Equal(t, 10, usage.TotalTokens)
		assert.True(t, usage.Estimated)
		assert.Greater(t, usage.Cost, 0.0)
	})

	t.Run("Local inference is free but still counted", func(t *testing.T) {
		usage := accountant.Account("ollama", "llama3", &llm.Usage{
			PromptTokens:     40,
			CompletionTokens: 20,
			TotalTokens:      60,
		}, "", "")
		assert.Equal(t, 60, usage.TotalTokens)
		assert.Zero(t, usage.Cost)
	})
}
