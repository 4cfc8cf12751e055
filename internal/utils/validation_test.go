package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockHour(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00", 0},
		{"06:30", 6.5},
		{"23:45", 23.75},
		{"24:00", 24},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockHour(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseClockHourRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "6", "25:00", "12:60", "noon"} {
		_, err := ParseClockHour(in)
		assert.Error(t, err, in)
	}
}

func TestFormatClockHour(t *testing.T) {
	assert.Equal(t, "06:30", FormatClockHour(6.5))
	assert.Equal(t, "01:00", FormatClockHour(25))
	assert.Equal(t, "23:00", FormatClockHour(-1))
	assert.Equal(t, "00:00", FormatClockHour(23.9999))
}
