package seed

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
)

func TestParseRoster(t *testing.T) {
	file, err := os.Open("./data/roster.csv")
	require.NoError(t, err)
	defer file.Close()

	trips, err := ParseRoster(file)
	require.NoError(t, err)
	require.Len(t, trips, 2)

	first := trips[0]
	assert.Equal(t, "zhangwei01", first.Username)
	assert.Equal(t, "广州-北京三日往返", first.Name)
	require.Len(t, first.Duties, 3)
	assert.Len(t, first.Duties[0].Legs, 2)
	assert.Equal(t, "PEK", first.Duties[0].Legs[1].Departure)
	assert.Equal(t, 1, first.Duties[1].DayOffset)
	assert.Equal(t, 18.0, first.Duties[1].StartHour)
	assert.Equal(t, 2.0, first.Duties[1].EndHour)

	second := trips[1]
	require.Len(t, second.Duties, 2)
	assert.Len(t, second.Duties[1].Legs, 2)
}

func TestParseRosterTripsAreAnalyzable(t *testing.T) {
	file, err := os.Open("./data/roster.csv")
	require.NoError(t, err)
	defer file.Close()

	trips, err := ParseRoster(file)
	require.NoError(t, err)

	engine, err := fatigue.New(fatigue.DefaultParameters())
	require.NoError(t, err)

	for _, trip := range trips {
		tl, err := fatigue.NormalizeClockDuties(trip.Duties)
		require.NoError(t, err, trip.Name)

		res, err := engine.Analyze(tl)
		require.NoError(t, err, trip.Name)
		assert.Len(t, res.Summary.DutyDaySummaries, len(trip.Duties))
	}
}

func TestParseRosterErrors(t *testing.T) {
	header := strings.Join(RosterHeaders, ",") + "\n"

	tests := map[string]string{
		"缺少列":   "工号,姓名\n",
		"天数不合法": header + "u1,甲,u1@example.com,行程,x,06:00,14:00,CZ1,CAN,PEK,,\n",
		"钟点不合法": header + "u1,甲,u1@example.com,行程,0,6点,14:00,CZ1,CAN,PEK,,\n",
		"空文件":   "",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoster(strings.NewReader(content))
			assert.Error(t, err)
		})
	}
}
