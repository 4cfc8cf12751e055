package fatigue

import (
	"errors"
	"fmt"
	"math"
)

var ErrEmptyInput = errors.New("没有提供任何值勤")

// InvalidTimelineError 值勤时间轴不合法（结束早于开始、相互重叠等），不会被自动修复
type InvalidTimelineError struct {
	Index  int
	Reason string
}

func (e *InvalidTimelineError) Error() string {
	return fmt.Sprintf("第 %d 段值勤不合法: %s", e.Index+1, e.Reason)
}

// InvalidConfigurationError 参数不合法，在开始模拟之前就会返回
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("参数 %s 不合法: %s", e.Field, e.Reason)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validHour(h float64) bool {
	return isFinite(h) && h >= 0 && h <= 24
}

// Validate 检查参数是否合法
func (p Parameters) Validate() error {
	if !isFinite(p.StepMinutes) || p.StepMinutes <= 0 {
		return &InvalidConfigurationError{Field: "StepMinutes", Reason: "步长必须为正数"}
	}

	durations := []struct {
		field string
		value float64
	}{
		{"CommuteMinutes", p.CommuteMinutes},
		{"MaxSleepMinutes", p.MaxSleepMinutes},
		{"MinSleepMinutes", p.MinSleepMinutes},
		{"InertiaWindowMinutes", p.InertiaWindowMinutes},
	}
	for _, d := range durations {
		if !isFinite(d.value) || d.value < 0 {
			return &InvalidConfigurationError{Field: d.field, Reason: "时长不能为负数"}
		}
	}

	if p.MinSleepMinutes > p.MaxSleepMinutes {
		return &InvalidConfigurationError{Field: "MinSleepMinutes", Reason: "最短睡眠不能大于最长睡眠"}
	}

	hours := []struct {
		field string
		value float64
	}{
		{"ForbiddenZoneStartHour", p.ForbiddenZoneStartHour},
		{"ForbiddenZoneEndHour", p.ForbiddenZoneEndHour},
		{"DefaultBedtimeHour", p.DefaultBedtimeHour},
	}
	for _, h := range hours {
		if !isFinite(h.value) || h.value < 0 || h.value >= 24 {
			return &InvalidConfigurationError{Field: h.field, Reason: "钟点必须在 [0, 24) 之间"}
		}
	}

	if !isFinite(p.InitialReservoirFraction) || p.InitialReservoirFraction < 0 || p.InitialReservoirFraction > 1 {
		return &InvalidConfigurationError{Field: "InitialReservoirFraction", Reason: "初始储备比例必须在 [0, 1] 之间"}
	}

	if !isFinite(p.RiskThreshold) || p.RiskThreshold < 0 || p.RiskThreshold > 100 {
		return &InvalidConfigurationError{Field: "RiskThreshold", Reason: "风险阈值必须在 [0, 100] 之间"}
	}

	for i, s := range p.ForcedSleeps {
		if !isFinite(s.StartMinutes) || !isFinite(s.EndMinutes) || s.EndMinutes <= s.StartMinutes {
			return &InvalidConfigurationError{Field: "ForcedSleeps", Reason: fmt.Sprintf("第 %d 段指定睡眠的结束时间必须晚于开始时间", i+1)}
		}
	}

	return nil
}
