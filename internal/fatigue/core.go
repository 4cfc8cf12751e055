package fatigue

import (
	"math"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// 一旦储备达到上限，睡眠强度为 0，这里给惯性的时间常数设一个下限，避免除以 0
const minSleepIntensity = 1e-6

// LocalHour 根据锚点钟点和经过的分钟数得到连续回绕的当地钟点
func LocalHour(anchorLocalHour, minutes float64) float64 {
	return wrapHour(anchorLocalHour + minutes/MinutesPerHour)
}

// Circadian 昼夜节律项，范围约为 [-1.5, 1.5]
func Circadian(localHour float64) float64 {
	return math.Cos(2*math.Pi*(localHour-18)/24) + 0.5*math.Cos(4*math.Pi*(localHour-21)/24)
}

// SleepRate 睡眠时每分钟的储备恢复量
// 饱和项的指数中不除以容量，除以容量之后恢复速率会小到不符合生理
// 节律调制系数限制在 [0, 1.55]，因此速率不会超过 MaxSleepRate
func SleepRate(reservoir, circadian float64) float64 {
	saturation := 1 - math.Exp(-SleepSaturation*(ReservoirCapacity-reservoir))
	modulation := clamp(1+CircadianSleepGain*circadian, 0, 1+CircadianSleepGain)
	return max(SleepRateMax*saturation*modulation, 0)
}

// PerformanceRhythm 节律振幅随睡眠债增大
func PerformanceRhythm(reservoir, circadian float64) float64 {
	amplitude := RhythmBaseAmplitude + RhythmDebtAmplitude*(ReservoirCapacity-reservoir)/ReservoirCapacity
	return amplitude * circadian
}

// SleepInertia 醒来之后的惯性惩罚，intensity 为醒来前最后一分钟的睡眠强度
func SleepInertia(intensity, minutesAwake float64) float64 {
	intensity = max(intensity, minSleepIntensity)
	return InertiaMax * math.Exp(-minutesAwake/(intensity*InertiaTimeScale))
}

func Effectiveness(reservoir, rhythm, inertia float64) float64 {
	return clamp(100*reservoir/ReservoirCapacity+rhythm-inertia, 0, 100)
}

func ClassifyRisk(effectiveness float64) domain.RiskLevel {
	switch {
	case effectiveness >= LowRiskThreshold:
		return domain.RiskLow
	case effectiveness >= ModerateRiskThreshold:
		return domain.RiskModerate
	case effectiveness >= HighRiskThreshold:
		return domain.RiskHigh
	default:
		return domain.RiskSevere
	}
}

func clampReservoir(r float64) float64 {
	return clamp(r, 0, ReservoirCapacity)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
