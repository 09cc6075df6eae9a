package service

import (
	"github.com/pathwise-app/backend/internal/llm"
	"github.com/pathwise-app/backend/internal/model"
	"github.com/pathwise-app/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// recordUsage appends one billing row for a completed generation call.
// Usage accounting must never fail the request, so errors are only logged.
func recordUsage(repo repository.UsageRepository, userID, kind string, resp *llm.Response) {
	if resp == nil {
		return
	}

	cost := 0.0
	if c := llm.LookupCost(resp.Model); c != nil {
		cost = c.Cost(resp.Usage)
	} else {
		log.Warn().Str("model", resp.Model).Msg("No pricing for model, recording zero cost")
	}

	record := &model.UsageRecord{
		UserID:       userID,
		Kind:         kind,
		Model:        resp.Model,
		TokensIn:     resp.Usage.PromptTokens,
		TokensOut:    resp.Usage.CompletionTokens,
		CachedTokens: resp.Usage.CachedTokens,
		CostUSD:      cost,
		LatencyMS:    resp.Latency.Milliseconds(),
	}
	if err := repo.Create(record); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Failed to persist usage record")
	}
}
