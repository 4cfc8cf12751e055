package fatigue

import (
	"cmp"
	"slices"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// NormalizeClockDuties 将“第几天 + 钟点”形式的值勤转换为单调递增的分钟时间轴
// 分钟数以第 0 天的当地午夜为起点，所以锚点钟点固定为 0，节律时钟与值勤钟点一致
// 同一天的多段值勤依靠总分钟数区分先后，而不是只比较钟点
func NormalizeClockDuties(duties []ClockDuty) (*domain.Timeline, error) {
	if len(duties) == 0 {
		return nil, ErrEmptyInput
	}

	periods := make([]domain.DutyPeriod, 0, len(duties))
	for i, d := range duties {
		if d.DayOffset < 0 {
			return nil, &InvalidTimelineError{Index: i, Reason: "天数偏移不能为负数"}
		}
		if !validHour(d.StartHour) || !validHour(d.EndHour) {
			return nil, &InvalidTimelineError{Index: i, Reason: "钟点必须在 [0, 24] 之间"}
		}
		if d.StartHour == d.EndHour {
			return nil, &InvalidTimelineError{Index: i, Reason: "值勤时长为 0"}
		}

		dayStart := float64(d.DayOffset) * MinutesPerDay
		start := dayStart + d.StartHour*MinutesPerHour
		end := dayStart + d.EndHour*MinutesPerHour
		if d.EndHour < d.StartHour {
			// 跨越午夜
			end += MinutesPerDay
		}

		periods = append(periods, domain.DutyPeriod{
			StartMinutes:   start,
			EndMinutes:     end,
			Legs:           d.Legs,
			LocalStartHour: wrapHour(d.StartHour),
			LocalEndHour:   wrapHour(d.EndHour),
		})
	}

	return NormalizeTimeline(0, periods)
}

// NormalizeTimeline 校验已经是分钟形式的值勤，返回一份新的时间轴，不修改传入的切片
func NormalizeTimeline(anchorLocalHour float64, duties []domain.DutyPeriod) (*domain.Timeline, error) {
	if len(duties) == 0 {
		return nil, ErrEmptyInput
	}
	if !isFinite(anchorLocalHour) || anchorLocalHour < 0 || anchorLocalHour >= 24 {
		return nil, &InvalidTimelineError{Index: 0, Reason: "锚点钟点必须在 [0, 24) 之间"}
	}

	normalized := make([]domain.DutyPeriod, len(duties))
	for i, d := range duties {
		if !isFinite(d.StartMinutes) || !isFinite(d.EndMinutes) {
			return nil, &InvalidTimelineError{Index: i, Reason: "开始或结束时间不是有效数字"}
		}
		if d.EndMinutes <= d.StartMinutes {
			return nil, &InvalidTimelineError{Index: i, Reason: "结束时间必须晚于开始时间"}
		}
		if !validHour(d.LocalStartHour) || !validHour(d.LocalEndHour) {
			return nil, &InvalidTimelineError{Index: i, Reason: "当地钟点必须在 [0, 24] 之间"}
		}
		if i > 0 && d.StartMinutes < duties[i-1].EndMinutes {
			return nil, &InvalidTimelineError{Index: i, Reason: "与上一段值勤重叠或顺序错误"}
		}

		normalized[i] = domain.DutyPeriod{
			StartMinutes:   d.StartMinutes,
			EndMinutes:     d.EndMinutes,
			Legs:           slices.Clone(d.Legs),
			LocalStartHour: wrapHour(d.LocalStartHour),
			LocalEndHour:   wrapHour(d.LocalEndHour),
		}
	}

	return &domain.Timeline{
		AnchorLocalHour: anchorLocalHour,
		Duties:          normalized,
	}, nil
}

// validateForcedSleeps 指定的睡眠既不能和值勤重叠，也不能相互重叠
func validateForcedSleeps(tl *domain.Timeline, forced []domain.SleepOpportunity) error {
	sorted := slices.Clone(forced)
	slices.SortFunc(sorted, func(a, b domain.SleepOpportunity) int {
		return cmp.Compare(a.StartMinutes, b.StartMinutes)
	})

	for i, s := range sorted {
		if i > 0 && s.StartMinutes < sorted[i-1].EndMinutes {
			return &InvalidConfigurationError{Field: "ForcedSleeps", Reason: "指定的睡眠之间相互重叠"}
		}
		for j, d := range tl.Duties {
			if overlaps(s.StartMinutes, s.EndMinutes, d.StartMinutes, d.EndMinutes) {
				return &InvalidTimelineError{Index: j, Reason: "与指定的睡眠重叠"}
			}
		}
	}

	return nil
}

func overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart < bEnd && bStart < aEnd
}
