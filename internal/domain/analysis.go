package domain

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// FatigueAnalysis 保存下来的一次行程分析
// 效能样本数量很大且可以由时间轴和参数重新算出，因此不保存
type FatigueAnalysis struct {
	ID               int64              `json:"id"`
	RunID            uuid.UUID          `json:"runId"`
	UserID           int64              `json:"userId"`
	Name             string             `json:"name"`
	Timeline         Timeline           `json:"timeline"`
	Parameters       json.RawMessage    `json:"parameters"`
	Sleeps           []SleepOpportunity `json:"sleeps"`
	Summary          FatigueSummary     `json:"summary"`
	MinEffectiveness float64            `json:"minEffectiveness"`
	OverallRiskLevel RiskLevel          `json:"overallRiskLevel"`
	CreatedAt        time.Time          `json:"createdAt"`
	Version          int32              `json:"-"`
}
