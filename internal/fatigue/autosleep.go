package fatigue

import (
	"cmp"
	"math"
	"slices"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// PredictSleep 为第一段值勤之前以及每两段值勤之间预测一次睡眠
// 每个间隔只看前后两段值勤，不会跨天向后推算，没有值勤时返回 nil
func PredictSleep(tl *domain.Timeline, p Parameters) []domain.SleepOpportunity {
	if tl == nil || len(tl.Duties) == 0 {
		return nil
	}

	sleeps := make([]domain.SleepOpportunity, 0, len(tl.Duties))

	if baseline, ok := baselineSleep(tl.Duties[0], p); ok {
		sleeps = append(sleeps, baseline)
	}

	for i := 1; i < len(tl.Duties); i++ {
		if sleep, ok := predictGapSleep(tl.Duties[i-1], tl.Duties[i], p); ok {
			sleeps = append(sleeps, sleep)
		}
	}

	return applyForcedSleeps(sleeps, p)
}

// baselineSleep 第一段值勤之前的睡眠：从默认就寝时间开始睡 8 小时，
// 但必须在值勤开始前预留通勤时间
func baselineSleep(first domain.DutyPeriod, p Parameters) (domain.SleepOpportunity, bool) {
	wakeLimit := first.StartMinutes - p.CommuteMinutes
	wakeHour := wrapHour(first.LocalStartHour - p.CommuteMinutes/MinutesPerHour)

	start := wakeLimit - hoursBetween(p.DefaultBedtimeHour, wakeHour)*MinutesPerHour
	if wakeLimit-start < p.MinSleepMinutes {
		// 离就寝时间太近，只能用前一天晚上的睡眠
		start -= MinutesPerDay
	}
	end := min(start+BaselineSleepMinutes, wakeLimit)

	return newSleep(start, end, domain.SleepSourceBaseline, p)
}

// predictGapSleep 根据前一段值勤结束时的当地钟点决定睡眠开始时间
func predictGapSleep(prev, next domain.DutyPeriod, p Parameters) (domain.SleepOpportunity, bool) {
	endHour := wrapHour(prev.LocalEndHour)
	start := prev.EndMinutes + p.CommuteMinutes

	if endHour < NoonHour {
		// 上午结束的值勤：下班通勤后立即睡觉，但不能在禁睡时段内开始
		startHour := wrapHour(endHour + p.CommuteMinutes/MinutesPerHour)
		if inForbiddenZone(startHour, p) {
			start += hoursBetween(startHour, p.ForbiddenZoneEndHour) * MinutesPerHour
		}
	} else {
		// 下午或晚上结束的值勤：推迟到禁睡时段结束和默认就寝时间两者中较晚的那个
		start = max(
			start,
			prev.EndMinutes+sameEveningOffset(endHour, p.ForbiddenZoneEndHour),
			prev.EndMinutes+sameEveningOffset(endHour, p.DefaultBedtimeHour),
		)
	}

	wakeLimit := next.StartMinutes - p.CommuteMinutes
	end := min(start+p.MaxSleepMinutes, wakeLimit)

	return newSleep(start, end, domain.SleepSourcePredicted, p)
}

func newSleep(start, end float64, source domain.SleepSource, p Parameters) (domain.SleepOpportunity, bool) {
	if end-start < p.MinSleepMinutes {
		return domain.SleepOpportunity{}, false
	}
	return domain.SleepOpportunity{
		StartMinutes: start,
		EndMinutes:   end,
		Source:       source,
	}, true
}

// applyForcedSleeps 指定的睡眠会替换与其重叠的预测睡眠，不受最长睡眠的限制
func applyForcedSleeps(predicted []domain.SleepOpportunity, p Parameters) []domain.SleepOpportunity {
	if len(p.ForcedSleeps) == 0 {
		return predicted
	}

	forced := make([]domain.SleepOpportunity, 0, len(p.ForcedSleeps))
	for _, s := range p.ForcedSleeps {
		if s.DurationMinutes() < p.MinSleepMinutes {
			continue
		}
		forced = append(forced, domain.SleepOpportunity{
			StartMinutes: s.StartMinutes,
			EndMinutes:   s.EndMinutes,
			Source:       domain.SleepSourceForced,
		})
	}

	result := make([]domain.SleepOpportunity, 0, len(predicted)+len(forced))
	for _, s := range predicted {
		replaced := slices.ContainsFunc(forced, func(f domain.SleepOpportunity) bool {
			return overlaps(s.StartMinutes, s.EndMinutes, f.StartMinutes, f.EndMinutes)
		})
		if !replaced {
			result = append(result, s)
		}
	}
	result = append(result, forced...)

	slices.SortFunc(result, func(a, b domain.SleepOpportunity) int {
		return cmp.Compare(a.StartMinutes, b.StartMinutes)
	})
	return result
}

// inForbiddenZone 禁睡时段为 [start, end)，支持跨越午夜的配置
func inForbiddenZone(h float64, p Parameters) bool {
	start, end := p.ForbiddenZoneStartHour, p.ForbiddenZoneEndHour
	if start <= end {
		return h >= start && h < end
	}
	return h >= start || h < end
}

// sameEveningOffset 从 fromHour 到当晚 clockHour 的分钟数，可能为负
// 中午之前的钟点视为属于次日凌晨
func sameEveningOffset(fromHour, clockHour float64) float64 {
	if clockHour < NoonHour {
		clockHour += 24
	}
	return (clockHour - fromHour) * MinutesPerHour
}

// hoursBetween 从钟点 from 顺时针走到钟点 to 需要的小时数，范围 [0, 24)
func hoursBetween(from, to float64) float64 {
	return wrapHour(to - from)
}

func wrapHour(h float64) float64 {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	if h >= 24 {
		// 极小的负数加上 24 之后可能正好等于 24
		h = 0
	}
	return h
}
