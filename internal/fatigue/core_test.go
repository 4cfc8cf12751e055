package fatigue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

func TestLocalHour_Wraps(t *testing.T) {
	assert.InDelta(t, 1.0, LocalHour(22, 180), 1e-9)
	assert.InDelta(t, 23.0, LocalHour(0, -60), 1e-9)
	assert.InDelta(t, 6.0, LocalHour(6, 3*MinutesPerDay), 1e-9)
}

func TestCircadian(t *testing.T) {
	assert.InDelta(t, 1.0, Circadian(18), 1e-9)
	assert.InDelta(t, -1.0, Circadian(6), 1e-9)

	for h := 0.0; h < 24; h += 0.1 {
		c := Circadian(h)
		assert.GreaterOrEqual(t, c, -1.5)
		assert.LessOrEqual(t, c, 1.5)
	}
}

func TestSleepRate_Bounds(t *testing.T) {
	for r := 0.0; r <= ReservoirCapacity; r += 10 {
		for h := 0.0; h < 24; h += 0.5 {
			rate := SleepRate(r, Circadian(h))
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, MaxSleepRate+1e-12)
		}
	}

	assert.Equal(t, 0.0, SleepRate(ReservoirCapacity, 1))
	// 储备越低恢复越快
	assert.Greater(t, SleepRate(1000, 0), SleepRate(2500, 0))
}

func TestSleepInertia(t *testing.T) {
	assert.InDelta(t, InertiaMax, SleepInertia(2, 0), 1e-12)

	prev := SleepInertia(2, 0)
	for m := 1.0; m <= 120; m++ {
		cur := SleepInertia(2, m)
		assert.Less(t, cur, prev)
		prev = cur
	}
	assert.Less(t, SleepInertia(2, 120), 0.1)

	// 睡眠强度为 0 时不会出现 NaN
	assert.InDelta(t, InertiaMax, SleepInertia(0, 0), 1e-12)
	assert.Equal(t, 0.0, SleepInertia(0, 1))
}

func TestPerformanceRhythm_AmplitudeGrowsWithDebt(t *testing.T) {
	assert.InDelta(t, RhythmBaseAmplitude, PerformanceRhythm(ReservoirCapacity, 1), 1e-12)
	assert.InDelta(t, RhythmBaseAmplitude+RhythmDebtAmplitude, PerformanceRhythm(0, 1), 1e-12)
}

func TestEffectiveness_Clamped(t *testing.T) {
	assert.Equal(t, 100.0, Effectiveness(ReservoirCapacity, 20, 0))
	assert.Equal(t, 0.0, Effectiveness(0, -10, 5))
	assert.InDelta(t, 85.0, Effectiveness(ReservoirCapacity*0.9, -2, 3), 1e-9)
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		effectiveness float64
		want          domain.RiskLevel
	}{
		{100, domain.RiskLow},
		{82, domain.RiskLow},
		{81.99, domain.RiskModerate},
		{70, domain.RiskModerate},
		{69.99, domain.RiskHigh},
		{60, domain.RiskHigh},
		{59.99, domain.RiskSevere},
		{0, domain.RiskSevere},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.effectiveness), "effectiveness %v", tt.effectiveness)
	}
}
