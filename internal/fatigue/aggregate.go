package fatigue

import (
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// Aggregate 汇总整个行程以及每段值勤的最低效能
// 值勤期间的效能才是安全相关的信号，所以每段值勤只看落在其时间范围内的样本
func Aggregate(tl *domain.Timeline, samples []domain.EffectivenessSample, riskThreshold float64) domain.FatigueSummary {
	summary := domain.FatigueSummary{
		DutyDaySummaries: make([]domain.DutyDaySummary, 0, len(tl.Duties)),
	}
	if len(samples) == 0 {
		summary.OverallRiskLevel = ClassifyRisk(100)
		return summary
	}

	minIdx := 0
	for i, s := range samples {
		if s.Effectiveness < samples[minIdx].Effectiveness {
			minIdx = i
		}
	}
	summary.MinEffectiveness = samples[minIdx].Effectiveness
	summary.TimeOfMin = samples[minIdx].TimeMinutes
	summary.OverallRiskLevel = ClassifyRisk(summary.MinEffectiveness)

	for i, d := range tl.Duties {
		summary.DutyDaySummaries = append(summary.DutyDaySummaries, summarizeDuty(i, d, samples, riskThreshold))
	}

	return summary
}

func summarizeDuty(index int, d domain.DutyPeriod, samples []domain.EffectivenessSample, riskThreshold float64) domain.DutyDaySummary {
	best := -1
	fallback := -1
	below := 0.0

	for i, s := range samples {
		if s.TimeMinutes <= d.EndMinutes {
			fallback = i
		}
		if s.TimeMinutes < d.StartMinutes || s.TimeMinutes > d.EndMinutes {
			continue
		}
		if best < 0 || s.Effectiveness < samples[best].Effectiveness {
			best = i
		}
		// 样本代表从当前时刻到下一个样本之间的状态
		if s.Effectiveness < riskThreshold && s.TimeMinutes < d.EndMinutes && i+1 < len(samples) {
			below += min(samples[i+1].TimeMinutes, d.EndMinutes) - s.TimeMinutes
		}
	}

	if best < 0 {
		// 步长比值勤还长时，值勤内没有样本，取值勤结束前最后一个样本
		best = max(fallback, 0)
	}

	return domain.DutyDaySummary{
		DutyIndex:                 index,
		StartMinutes:              d.StartMinutes,
		EndMinutes:                d.EndMinutes,
		MinEffectiveness:          samples[best].Effectiveness,
		TimeOfMin:                 samples[best].TimeMinutes,
		RiskLevel:                 ClassifyRisk(samples[best].Effectiveness),
		TimeBelowThresholdMinutes: below,
	}
}
