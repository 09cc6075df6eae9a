package llm

// ModelCost holds per-million-token pricing for a model, USD per 1M tokens.
// CachedInputPerMTok applies to prompt tokens the provider served from its
// prompt cache.
type ModelCost struct {
	InputPerMTok       float64
	CachedInputPerMTok float64
	OutputPerMTok      float64
}

// Cost computes the USD cost for a single call. Cached prompt tokens are
// billed at the cached-input rate; the remainder at the full input rate.
func (c ModelCost) Cost(u Usage) float64 {
	fresh := u.PromptTokens - u.CachedTokens
	if fresh < 0 {
		fresh = 0
	}
	return float64(fresh)*c.InputPerMTok/1_000_000 +
		float64(u.CachedTokens)*c.CachedInputPerMTok/1_000_000 +
		float64(u.CompletionTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model id, or nil if unknown.
// Unknown models produce zero-cost usage rows rather than failing the call.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts is the embedded pricing table, USD per 1M tokens.
var modelCosts = map[string]ModelCost{
	"gpt-4o":        {2.5, 1.25, 10},
	"gpt-4o-mini":   {0.15, 0.075, 0.6},
	"gpt-4.1":       {2, 0.5, 8},
	"gpt-4.1-mini":  {0.4, 0.1, 1.6},
	"gpt-4.1-nano":  {0.1, 0.025, 0.4},
	"gpt-5":         {1.25, 0.125, 10},
	"gpt-5-mini":    {0.25, 0.025, 2},
	"gpt-5-nano":    {0.05, 0.005, 0.4},
	"o3":            {2, 0.5, 8},
	"o4-mini":       {1.1, 0.275, 4.4},

	// OpenRouter-prefixed aliases for the same models.
	"openai/gpt-4o":       {2.5, 1.25, 10},
	"openai/gpt-4o-mini":  {0.15, 0.075, 0.6},
	"openai/gpt-4.1":      {2, 0.5, 8},
	"openai/gpt-4.1-mini": {0.4, 0.1, 1.6},
}
