package domain

type DutyDaySummary struct {
	DutyIndex                 int       `json:"dutyIndex"`
	StartMinutes              float64   `json:"startMinutes"`
	EndMinutes                float64   `json:"endMinutes"`
	MinEffectiveness          float64   `json:"minEffectiveness"`
	TimeOfMin                 float64   `json:"timeOfMin"`
	RiskLevel                 RiskLevel `json:"riskLevel"`
	TimeBelowThresholdMinutes float64   `json:"timeBelowThresholdMinutes"`
}

type FatigueSummary struct {
	MinEffectiveness float64          `json:"minEffectiveness"`
	TimeOfMin        float64          `json:"timeOfMin"`
	OverallRiskLevel RiskLevel        `json:"overallRiskLevel"`
	DutyDaySummaries []DutyDaySummary `json:"dutyDaySummaries"`
}
