package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// FatigueAlertMailData 行程最低效能达到预警等级时发给机组成员的邮件
type FatigueAlertMailData struct {
	FullName         string           `json:"fullName"`
	AnalysisID       int64            `json:"analysisId"`
	AnalysisName     string           `json:"analysisName"`
	MinEffectiveness float64          `json:"minEffectiveness"`
	TimeOfMin        float64          `json:"timeOfMin"`
	OverallRiskLevel RiskLevel        `json:"overallRiskLevel"`
	RiskyDuties      []DutyDaySummary `json:"riskyDuties"`
}
