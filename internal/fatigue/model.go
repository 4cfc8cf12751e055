package fatigue

import (
	"slices"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// 模型常数
const (
	ReservoirCapacity    = 2880.0 // 睡眠储备容量
	AwakeDrainPerMinute  = 0.5    // 清醒时每分钟消耗
	SleepRateMax         = 3.4    // 睡眠时最大恢复速率
	SleepSaturation      = 0.00312
	CircadianSleepGain   = 0.55
	RhythmBaseAmplitude  = 7.0
	RhythmDebtAmplitude  = 5.0
	InertiaMax           = 5.0
	InertiaTimeScale     = 15.0
	BaselineSleepMinutes = 480.0

	// 睡眠恢复速率的上限，即 3.4 * (1 + 0.55)
	MaxSleepRate = SleepRateMax * (1 + CircadianSleepGain)

	LowRiskThreshold      = 82.0
	ModerateRiskThreshold = 70.0
	HighRiskThreshold     = 60.0

	MinutesPerDay  = 1440.0
	MinutesPerHour = 60.0
	NoonHour       = 12.0
)

// Parameters 引擎的所有可调参数
type Parameters struct {
	CommuteMinutes           float64                   `json:"commuteMinutes"`
	MaxSleepMinutes          float64                   `json:"maxSleepMinutes"`
	MinSleepMinutes          float64                   `json:"minSleepMinutes"`
	ForbiddenZoneStartHour   float64                   `json:"forbiddenZoneStartHour"`
	ForbiddenZoneEndHour     float64                   `json:"forbiddenZoneEndHour"`
	DefaultBedtimeHour       float64                   `json:"defaultBedtimeHour"`
	InitialReservoirFraction float64                   `json:"initialReservoirFraction"`
	StepMinutes              float64                   `json:"stepMinutes"`
	InertiaWindowMinutes     float64                   `json:"inertiaWindowMinutes"`
	RiskThreshold            float64                   `json:"riskThreshold"` // 用于统计值勤中低于该值的时长
	ForcedSleeps             []domain.SleepOpportunity `json:"forcedSleeps,omitempty"`
}

// DefaultParameters 返回默认参数
// 初始储备取 0.90 而不是 1.0，机组很少在完全休息好的状态下开始一个值勤周期
func DefaultParameters() Parameters {
	return Parameters{
		CommuteMinutes:           60,
		MaxSleepMinutes:          480,
		MinSleepMinutes:          60,
		ForbiddenZoneStartHour:   12,
		ForbiddenZoneEndHour:     20,
		DefaultBedtimeHour:       23,
		InitialReservoirFraction: 0.90,
		StepMinutes:              1,
		InertiaWindowMinutes:     120,
		RiskThreshold:            ModerateRiskThreshold,
	}
}

func (p Parameters) clone() Parameters {
	p.ForcedSleeps = slices.Clone(p.ForcedSleeps)
	return p
}

// ClockDuty 以“第几天 + 当天钟点”表示的值勤，EndHour 不大于 StartHour 时视为跨越午夜
type ClockDuty struct {
	DayOffset int
	StartHour float64
	EndHour   float64
	Legs      []domain.FlightLeg
}

// Interval 合并后的时间轴中的一段，整个行程由这些区间首尾相接组成
type Interval struct {
	Start  float64
	End    float64
	Asleep bool
	OnDuty bool
}

// Result 一次分析的完整输出
type Result struct {
	Timeline *domain.Timeline             `json:"timeline"`
	Sleeps   []domain.SleepOpportunity    `json:"sleeps"`
	Samples  []domain.EffectivenessSample `json:"samples"`
	Summary  domain.FatigueSummary        `json:"summary"`
}
