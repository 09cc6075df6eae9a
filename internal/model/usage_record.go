package model

import "time"

// Usage kinds, one per billable call site.
const (
	UsageKindAssessment    = "assessment"
	UsageKindJudge         = "judge"
	UsageKindPlanFramework = "plan_framework"
	UsageKindPlanStructure = "plan_structure"
	UsageKindPlanContent   = "plan_content"
)

// UsageRecord is the append-only billing ledger, one row per generation call.
// Written by the calling service, never read back by the pipeline.
type UsageRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       string    `json:"user_id" gorm:"not null;index"`
	Kind         string    `json:"kind" gorm:"not null"`
	Model        string    `json:"model" gorm:"not null"`
	TokensIn     int       `json:"tokens_in" gorm:"not null"`
	TokensOut    int       `json:"tokens_out" gorm:"not null"`
	CachedTokens int       `json:"cached_tokens" gorm:"not null;default:0"`
	CostUSD      float64   `json:"cost_usd" gorm:"not null"`
	LatencyMS    int64     `json:"latency_ms" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
