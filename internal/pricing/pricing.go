package pricing

import (
	"strings"

	"parley/backend/internal/llm"
	"parley/backend/internal/model"
)

// Rate is the price in USD per 1K tokens for one model.
type Rate struct {
	PromptPer1K     float64 `json:"prompt_per_1k" mapstructure:"prompt_per_1k"`
	CompletionPer1K float64 `json:"completion_per_1k" mapstructure:"completion_per_1k"`
}

// Table maps provider → model prefix → rate. Model lookup uses the longest
// matching prefix so dated releases ("gpt-4o-2024-08-06") inherit their
// family's rate.
type Table map[string]map[string]Rate

// DefaultTable holds published list prices. Local inference is free, so
// "ollama" has no entries and falls through to zero.
func DefaultTable() Table {
	return Table{
		"openai": {
			"gpt-4":         {PromptPer1K: 0.03, CompletionPer1K: 0.06},
			"gpt-4-turbo":   {PromptPer1K: 0.01, CompletionPer1K: 0.03},
			"gpt-4o":        {PromptPer1K: 0.005, CompletionPer1K: 0.015},
			"gpt-4o-mini":   {PromptPer1K: 0.00015, CompletionPer1K: 0.0006},
			"gpt-3.5-turbo": {PromptPer1K: 0.0005, CompletionPer1K: 0.0015},
		},
		"anthropic": {
			"claude-3-opus":     {PromptPer1K: 0.015, CompletionPer1K: 0.075},
			"claude-3-sonnet":   {PromptPer1K: 0.003, CompletionPer1K: 0.015},
			"claude-3-haiku":    {PromptPer1K: 0.00025, CompletionPer1K: 0.00125},
			"claude-3-5-sonnet": {PromptPer1K: 0.003, CompletionPer1K: 0.015},
		},
	}
}

// lookup finds the rate for a model within a provider, preferring the longest
// prefix match. The second return reports whether a rate was found.
func (t Table) lookup(provider, modelID string) (Rate, bool) {
	models, ok := t[strings.ToLower(provider)]
	if !ok {
		return Rate{}, false
	}
	var (
		best    Rate
		bestLen = -1
	)
	for prefix, rate := range models {
		if strings.HasPrefix(modelID, prefix) && len(prefix) > bestLen {
			best = rate
			bestLen = len(prefix)
		}
	}
	return best, bestLen >= 0
}

// Accountant converts raw adapter usage into persisted token counts and
// monetary cost. It is best-effort telemetry: unknown models cost zero and
// missing vendor usage is estimated, but accounting never fails a send.
type Accountant struct {
	table Table
	// charsPerToken is the estimation heuristic divisor. Accuracy varies by
	// tokenizer, which is why it is configuration rather than a constant.
	charsPerToken int
}

const defaultCharsPerToken = 4

// NewAccountant builds an accountant over the given table. A nil table uses
// the defaults; charsPerToken <= 0 uses the documented default of 4.
func NewAccountant(table Table, charsPerToken int) *Accountant {
	if table == nil {
		table = DefaultTable()
	}
	if charsPerToken <= 0 {
		charsPerToken = defaultCharsPerToken
	}
	return &Accountant{table: table, charsPerToken: charsPerToken}
}

// Cost computes the USD cost of one exchange. Unknown (provider, model)
// pairs cost zero rather than failing.
func (a *Accountant) Cost(provider, modelID string, promptTokens, completionTokens int) float64 {
	rate, ok := a.table.lookup(provider, modelID)
	if !ok {
		return 0
	}
	return float64(promptTokens)/1000*rate.PromptPer1K +
		float64(completionTokens)/1000*rate.CompletionPer1K
}

// EstimateTokens approximates a token count from text length. Rounds up so
// short non-empty text never counts as zero.
func (a *Accountant) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + a.charsPerToken - 1) / a.charsPerToken
}

// Account turns an adapter-reported usage (possibly nil) into the persisted
// usage record for an assistant message. When the vendor reported nothing,
// counts are estimated from the prompt and completion text and flagged as
// such.
func (a *Accountant) Account(provider, modelID string, reported *llm.Usage, promptText, completionText string) *model.Usage {
	usage := &model.Usage{}
	if reported != nil {
		usage.PromptTokens = reported.PromptTokens
		usage.CompletionTokens = reported.CompletionTokens
		usage.TotalTokens = reported.TotalTokens
		usage.Estimated = reported.Estimated
		if usage.TotalTokens == 0 {
			usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		}
	} else {
		usage.PromptTokens = a.EstimateTokens(promptText)
		usage.CompletionTokens = a.EstimateTokens(completionText)
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		usage.Estimated = true
	}
	usage.Cost = a.Cost(provider, modelID, usage.PromptTokens, usage.CompletionTokens)
	return usage
}
