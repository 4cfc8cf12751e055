package fatigue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// duty 以第 0 天午夜为起点、锚点为 0 的分钟数构造一段值勤
func duty(start, end float64) domain.DutyPeriod {
	return domain.DutyPeriod{
		StartMinutes:   start,
		EndMinutes:     end,
		LocalStartHour: LocalHour(0, start),
		LocalEndHour:   LocalHour(0, end),
	}
}

func timeline(t *testing.T, duties ...domain.DutyPeriod) *domain.Timeline {
	t.Helper()
	tl, err := NormalizeTimeline(0, duties)
	require.NoError(t, err)
	return tl
}

func predicted(sleeps []domain.SleepOpportunity) []domain.SleepOpportunity {
	var out []domain.SleepOpportunity
	for _, s := range sleeps {
		if s.Source == domain.SleepSourcePredicted {
			out = append(out, s)
		}
	}
	return out
}

func TestPredictSleep_EarlyEndDutySleepsAfterCommute(t *testing.T) {
	// 23:00 ~ 次日 03:00 的值勤，距离下一段值勤 12 小时
	tl := timeline(t, duty(1380, 1620), duty(2340, 2700))

	sleeps := predicted(PredictSleep(tl, DefaultParameters()))
	require.Len(t, sleeps, 1)

	assert.Equal(t, 1680.0, sleeps[0].StartMinutes)
	assert.InDelta(t, 4.0, LocalHour(0, sleeps[0].StartMinutes), 1e-9)
	assert.Equal(t, 480.0, sleeps[0].DurationMinutes())
}

func TestPredictSleep_EarlyEndDutyIsClampedOutOfForbiddenZone(t *testing.T) {
	// 11:30 结束，通勤后为 12:30，落在禁睡时段内
	tl := timeline(t, duty(360, 690), duty(2040, 2400))

	sleeps := predicted(PredictSleep(tl, DefaultParameters()))
	require.Len(t, sleeps, 1)

	assert.Equal(t, 1200.0, sleeps[0].StartMinutes)
	assert.Equal(t, 480.0, sleeps[0].DurationMinutes())
}

func TestPredictSleep_LateEndDutyWaitsForBedtime(t *testing.T) {
	// 15:00 结束，处于 12:00 ~ 20:00 的禁睡时段
	tl := timeline(t, duty(480, 900), duty(1980, 2400))

	sleeps := predicted(PredictSleep(tl, DefaultParameters()))
	require.Len(t, sleeps, 1)

	startHour := LocalHour(0, sleeps[0].StartMinutes)
	assert.GreaterOrEqual(t, startHour, 20.0)
	assert.Equal(t, 1380.0, sleeps[0].StartMinutes)
	assert.Equal(t, 1860.0, sleeps[0].EndMinutes)
}

func TestPredictSleep_LateEndAfterBedtimeStillCommutes(t *testing.T) {
	// 23:30 结束，通勤之后 00:30 开始睡觉
	tl := timeline(t, duty(900, 1410), duty(2280, 2700))

	sleeps := predicted(PredictSleep(tl, DefaultParameters()))
	require.Len(t, sleeps, 1)

	assert.Equal(t, 1470.0, sleeps[0].StartMinutes)
	assert.Equal(t, 1950.0, sleeps[0].EndMinutes)
}

func TestPredictSleep_ShortGapHasNoSleep(t *testing.T) {
	// 03:00 结束，05:30 又开始值勤，扣除通勤后只剩 30 分钟
	tl := timeline(t, duty(1380, 1620), duty(1770, 2000))

	sleeps := PredictSleep(tl, DefaultParameters())
	assert.Empty(t, predicted(sleeps))
	require.Len(t, sleeps, 1)
	assert.Equal(t, domain.SleepSourceBaseline, sleeps[0].Source)
}

func TestPredictSleep_BaselineTruncatedByCommute(t *testing.T) {
	// 06:00 开始的第一段值勤，23:00 就寝，05:00 起床
	tl := timeline(t, duty(360, 840))

	sleeps := PredictSleep(tl, DefaultParameters())
	require.Len(t, sleeps, 1)

	assert.Equal(t, domain.SleepSourceBaseline, sleeps[0].Source)
	assert.Equal(t, -60.0, sleeps[0].StartMinutes)
	assert.Equal(t, 300.0, sleeps[0].EndMinutes)
}

func TestPredictSleep_BaselineFallsBackToPreviousNight(t *testing.T) {
	// 00:30 开始的值勤，当晚 23:00 就寝只能睡 30 分钟，改用前一晚的睡眠
	tl := timeline(t, duty(30, 400))

	sleeps := PredictSleep(tl, DefaultParameters())
	require.Len(t, sleeps, 1)

	assert.Equal(t, -1500.0, sleeps[0].StartMinutes)
	assert.Equal(t, BaselineSleepMinutes, sleeps[0].DurationMinutes())
}

func TestPredictSleep_ForcedSleepReplacesPrediction(t *testing.T) {
	tl := timeline(t, duty(1380, 1620), duty(2340, 2700))

	p := DefaultParameters()
	p.ForcedSleeps = []domain.SleepOpportunity{{StartMinutes: 1700, EndMinutes: 2200}}

	sleeps := PredictSleep(tl, p)
	require.Len(t, sleeps, 2)

	assert.Equal(t, domain.SleepSourceBaseline, sleeps[0].Source)
	assert.Equal(t, domain.SleepSourceForced, sleeps[1].Source)
	// 指定的睡眠不受 480 分钟上限的约束
	assert.Equal(t, 500.0, sleeps[1].DurationMinutes())
}

func TestPredictSleep_ShortForcedSleepIsDiscarded(t *testing.T) {
	tl := timeline(t, duty(1380, 1620), duty(2340, 2700))

	p := DefaultParameters()
	p.ForcedSleeps = []domain.SleepOpportunity{{StartMinutes: 2000, EndMinutes: 2030}}

	sleeps := PredictSleep(tl, p)
	assert.Len(t, predicted(sleeps), 1)
	for _, s := range sleeps {
		assert.NotEqual(t, domain.SleepSourceForced, s.Source)
	}
}

func TestPredictSleep_DurationBounds(t *testing.T) {
	tl, err := NormalizeClockDuties([]ClockDuty{
		{DayOffset: 0, StartHour: 6, EndHour: 14},
		{DayOffset: 1, StartHour: 18, EndHour: 2},
		{DayOffset: 3, StartHour: 8, EndHour: 16},
		{DayOffset: 4, StartHour: 5, EndHour: 9.5},
		{DayOffset: 4, StartHour: 21, EndHour: 23},
	})
	require.NoError(t, err)

	p := DefaultParameters()
	for _, s := range PredictSleep(tl, p) {
		assert.GreaterOrEqual(t, s.DurationMinutes(), p.MinSleepMinutes)
		assert.LessOrEqual(t, s.DurationMinutes(), p.MaxSleepMinutes)
		for _, d := range tl.Duties {
			assert.False(t, overlaps(s.StartMinutes, s.EndMinutes, d.StartMinutes-p.CommuteMinutes, d.EndMinutes+p.CommuteMinutes),
				"sleep %+v overlaps duty %+v", s, d)
		}
	}
}

func TestInForbiddenZone_WrapsMidnight(t *testing.T) {
	p := DefaultParameters()
	p.ForbiddenZoneStartHour = 22
	p.ForbiddenZoneEndHour = 4

	assert.True(t, inForbiddenZone(23, p))
	assert.True(t, inForbiddenZone(2, p))
	assert.False(t, inForbiddenZone(4, p))
	assert.False(t, inForbiddenZone(12, p))
}
