package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
)

func TestGenerateRandomTripIsAnalyzable(t *testing.T) {
	engine, err := fatigue.New(fatigue.DefaultParameters())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		duties := GenerateRandomTrip(5)
		require.NotEmpty(t, duties)

		tl, err := fatigue.NormalizeClockDuties(duties)
		require.NoError(t, err)

		for j := 1; j < len(tl.Duties); j++ {
			rest := tl.Duties[j].StartMinutes - tl.Duties[j-1].EndMinutes
			assert.GreaterOrEqual(t, rest, float64(minRestMinutes))
		}

		_, err = engine.Analyze(tl)
		require.NoError(t, err)
	}
}

func TestGenerateRandomTripLegsAreChained(t *testing.T) {
	for _, d := range GenerateRandomTrip(3) {
		require.NotEmpty(t, d.Legs)
		for i := 1; i < len(d.Legs); i++ {
			assert.Equal(t, d.Legs[i-1].Arrival, d.Legs[i].Departure)
			assert.NotEqual(t, d.Legs[i].Departure, d.Legs[i].Arrival)
		}
	}
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	username := GenerateUsernameFromChineseName("王伟")
	assert.Regexp(t, `^w[a-z]*w[a-z]*[0-9]{1,3}$`, username)
}
