package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
)

func cacheTimeline() *domain.Timeline {
	return &domain.Timeline{
		AnchorLocalHour: 0,
		Duties: []domain.DutyPeriod{
			{StartMinutes: 360, EndMinutes: 840, LocalStartHour: 6, LocalEndHour: 14},
		},
	}
}

func TestAnalysisCacheKeyIsDeterministic(t *testing.T) {
	p := fatigue.DefaultParameters()

	a, err := analysisCacheKey(cacheTimeline(), p)
	require.NoError(t, err)
	b, err := analysisCacheKey(cacheTimeline(), p)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Regexp(t, `^fatigue_result_[0-9a-f]{64}$`, a)
}

func TestAnalysisCacheKeyChangesWithInput(t *testing.T) {
	p := fatigue.DefaultParameters()
	base, err := analysisCacheKey(cacheTimeline(), p)
	require.NoError(t, err)

	tl := cacheTimeline()
	tl.Duties[0].EndMinutes = 900
	changedTimeline, err := analysisCacheKey(tl, p)
	require.NoError(t, err)
	assert.NotEqual(t, base, changedTimeline)

	p.InitialReservoirFraction = 1
	changedParameters, err := analysisCacheKey(cacheTimeline(), p)
	require.NoError(t, err)
	assert.NotEqual(t, base, changedParameters)

	p = fatigue.DefaultParameters()
	p.ForcedSleeps = []domain.SleepOpportunity{{StartMinutes: 0, EndMinutes: 300, Source: domain.SleepSourceForced}}
	changedSleeps, err := analysisCacheKey(cacheTimeline(), p)
	require.NoError(t, err)
	assert.NotEqual(t, base, changedSleeps)
}

func TestAnalyzeWithoutRedisRunsEngine(t *testing.T) {
	h := newTestHandler(t)

	res, err := h.analyze(h.engine, cacheTimeline())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Samples)
	assert.Len(t, res.Summary.DutyDaySummaries, 1)
}
