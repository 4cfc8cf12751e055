package domain

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskSevere   RiskLevel = "severe"
)

// Severity 数值越大风险越高，便于比较
func (l RiskLevel) Severity() int {
	switch l {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskSevere:
		return 3
	default:
		return -1
	}
}

// SimulationState 某一时刻的睡眠储备
type SimulationState struct {
	TimeMinutes    float64 `json:"timeMinutes"`
	ReservoirUnits float64 `json:"reservoirUnits"`
	IsAsleep       bool    `json:"isAsleep"`
}

// EffectivenessSample 模拟器每一步的输出
type EffectivenessSample struct {
	TimeMinutes         float64   `json:"timeMinutes"`
	ReservoirUnits      float64   `json:"reservoirUnits"`
	ReservoirPct        float64   `json:"reservoirPct"`
	CircadianComponent  float64   `json:"circadianComponent"`
	PerformanceRhythm   float64   `json:"performanceRhythm"`
	SleepInertiaPenalty float64   `json:"sleepInertiaPenalty"`
	Effectiveness       float64   `json:"effectiveness"`
	RiskLevel           RiskLevel `json:"riskLevel"`
	IsAsleep            bool      `json:"isAsleep"`
	IsOnDuty            bool      `json:"isOnDuty"`
}
