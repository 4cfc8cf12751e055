package fatigue

import (
	"cmp"
	"math"
	"slices"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// BuildIntervals 将值勤和睡眠合并为首尾相接的区间序列
// 起点为第一次睡眠和第一段值勤中较早的那个，终点为最后一段值勤的结束，没有值勤时返回 nil
func BuildIntervals(tl *domain.Timeline, sleeps []domain.SleepOpportunity) []Interval {
	if tl == nil || len(tl.Duties) == 0 {
		return nil
	}

	blocks := make([]Interval, 0, len(tl.Duties)+len(sleeps))
	for _, d := range tl.Duties {
		blocks = append(blocks, Interval{Start: d.StartMinutes, End: d.EndMinutes, OnDuty: true})
	}
	for _, s := range sleeps {
		blocks = append(blocks, Interval{Start: s.StartMinutes, End: s.EndMinutes, Asleep: true})
	}
	slices.SortFunc(blocks, func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})

	start := blocks[0].Start
	end := tl.EndMinutes()

	intervals := make([]Interval, 0, 2*len(blocks))
	cursor := start
	for _, b := range blocks {
		if b.Start >= end {
			// 最后一段值勤之后的睡眠不在模拟范围内
			break
		}
		if b.Start > cursor {
			intervals = append(intervals, Interval{Start: cursor, End: b.Start})
		}
		b.End = min(b.End, end)
		intervals = append(intervals, b)
		cursor = b.End
	}

	return intervals
}

// simState 折叠过程中的状态，每一步都产生一个新的值
type simState struct {
	domain.SimulationState
	sleepIntensity   float64 // 当前睡眠最后一步的睡眠强度
	inertiaIntensity float64 // 最近一次醒来时记录的睡眠强度
	wokeAt           float64
	hasWoken         bool
}

// Simulate 以固定步长对整个行程进行模拟
// 每一步的储备都依赖上一步的结果，只能顺序计算
func Simulate(tl *domain.Timeline, sleeps []domain.SleepOpportunity, p Parameters) ([]domain.EffectivenessSample, error) {
	if tl == nil || len(tl.Duties) == 0 {
		return nil, ErrEmptyInput
	}
	if !isFinite(p.StepMinutes) || p.StepMinutes <= 0 {
		return nil, &InvalidConfigurationError{Field: "StepMinutes", Reason: "步长必须为正数"}
	}

	intervals := BuildIntervals(tl, sleeps)
	t0 := intervals[0].Start
	tEnd := intervals[len(intervals)-1].End
	steps := int(math.Ceil((tEnd-t0)/p.StepMinutes - 1e-9))

	state := simState{
		SimulationState: domain.SimulationState{
			TimeMinutes:    t0,
			ReservoirUnits: clampReservoir(p.InitialReservoirFraction * ReservoirCapacity),
			IsAsleep:       intervals[0].Asleep,
		},
	}

	samples := make([]domain.EffectivenessSample, 0, steps+1)
	idx := 0
	for k := 0; k <= steps; k++ {
		t := min(t0+float64(k)*p.StepMinutes, tEnd)
		for idx < len(intervals)-1 && t >= intervals[idx].End {
			idx++
		}
		iv := intervals[idx]

		state = state.transition(t, iv.Asleep)
		circadian := Circadian(LocalHour(tl.AnchorLocalHour, t))
		samples = append(samples, state.sample(circadian, iv.OnDuty, p))

		if k < steps {
			dt := min(p.StepMinutes, tEnd-t)
			state = state.advance(circadian, dt)
		}
	}

	return samples, nil
}

// transition 切换到时刻 t 的睡眠/清醒状态，从睡眠切换到清醒时记录醒来事件
func (s simState) transition(t float64, asleep bool) simState {
	next := s
	next.TimeMinutes = t
	next.IsAsleep = asleep
	if s.IsAsleep && !asleep {
		next.hasWoken = true
		next.wokeAt = t
		next.inertiaIntensity = s.sleepIntensity
	}
	return next
}

// advance 将储备推进 dt 分钟
func (s simState) advance(circadian, dt float64) simState {
	next := s
	if s.IsAsleep {
		rate := SleepRate(s.ReservoirUnits, circadian)
		next.sleepIntensity = rate
		next.ReservoirUnits = clampReservoir(s.ReservoirUnits + rate*dt)
	} else {
		next.ReservoirUnits = clampReservoir(s.ReservoirUnits - AwakeDrainPerMinute*dt)
	}
	next.TimeMinutes = s.TimeMinutes + dt
	return next
}

func (s simState) inertia(p Parameters) float64 {
	if s.IsAsleep || !s.hasWoken {
		return 0
	}
	awake := s.TimeMinutes - s.wokeAt
	if awake >= p.InertiaWindowMinutes {
		return 0
	}
	return SleepInertia(s.inertiaIntensity, awake)
}

func (s simState) sample(circadian float64, onDuty bool, p Parameters) domain.EffectivenessSample {
	rhythm := PerformanceRhythm(s.ReservoirUnits, circadian)
	inertia := s.inertia(p)
	effectiveness := Effectiveness(s.ReservoirUnits, rhythm, inertia)

	return domain.EffectivenessSample{
		TimeMinutes:         s.TimeMinutes,
		ReservoirUnits:      s.ReservoirUnits,
		ReservoirPct:        s.ReservoirUnits / ReservoirCapacity * 100,
		CircadianComponent:  circadian,
		PerformanceRhythm:   rhythm,
		SleepInertiaPenalty: inertia,
		Effectiveness:       effectiveness,
		RiskLevel:           ClassifyRisk(effectiveness),
		IsAsleep:            s.IsAsleep,
		IsOnDuty:            onDuty,
	}
}
