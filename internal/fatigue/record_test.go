package fatigue

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

func TestNewAnalysisRecordsParameters(t *testing.T) {
	p := DefaultParameters()
	p.ForcedSleeps = []domain.SleepOpportunity{{StartMinutes: 1000, EndMinutes: 1300, Source: domain.SleepSourceForced}}
	engine, err := New(p)
	require.NoError(t, err)

	res, err := engine.Analyze(multiDayTrip(t))
	require.NoError(t, err)

	a, err := NewAnalysis(3, "测试行程", engine.Parameters(), res)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.RunID)
	assert.Equal(t, int64(3), a.UserID)
	assert.Equal(t, res.Summary.MinEffectiveness, a.MinEffectiveness)
	assert.Equal(t, res.Summary.OverallRiskLevel, a.OverallRiskLevel)

	var decoded Parameters
	require.NoError(t, json.Unmarshal(a.Parameters, &decoded))
	assert.Equal(t, engine.Parameters(), decoded)
}

func TestReplayReproducesAnalysis(t *testing.T) {
	engine := newEngine(t, DefaultParameters())

	res, err := engine.Analyze(multiDayTrip(t))
	require.NoError(t, err)

	a, err := NewAnalysis(1, "回放", engine.Parameters(), res)
	require.NoError(t, err)

	// 模拟保存后再读出
	data, err := json.Marshal(a)
	require.NoError(t, err)
	var stored domain.FatigueAnalysis
	require.NoError(t, json.Unmarshal(data, &stored))

	replayed, err := Replay(&stored)
	require.NoError(t, err)

	assert.Equal(t, res.Samples, replayed.Samples)
	assert.Equal(t, res.Summary, replayed.Summary)
}

func TestReplayRejectsBrokenParameters(t *testing.T) {
	_, err := Replay(&domain.FatigueAnalysis{Parameters: []byte(`{"stepMinutes": 0}`)})
	var configErr *InvalidConfigurationError
	assert.ErrorAs(t, err, &configErr)

	_, err = Replay(&domain.FatigueAnalysis{Parameters: []byte(`not json`)})
	assert.Error(t, err)
}
