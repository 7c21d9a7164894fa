package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseElapsed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		seconds float64
		ok      bool
	}{
		{name: "hours_minutes_seconds", raw: "1:23:45", seconds: 5025, ok: true},
		{name: "minutes_seconds", raw: "23:45", seconds: 1425, ok: true},
		{name: "fractional_seconds", raw: "23:45.6", seconds: 1425.6, ok: true},
		{name: "bare_seconds", raw: "45", seconds: 45, ok: true},
		{name: "leading_whitespace", raw: "  42:10 ", seconds: 2530, ok: true},
		{name: "dnf_marker", raw: "DNF", seconds: 0, ok: false},
		{name: "dns_marker", raw: "dns", seconds: 0, ok: false},
		{name: "dash_marker", raw: "-", seconds: 0, ok: false},
		{name: "empty", raw: "", seconds: 0, ok: false},
		{name: "four_segments", raw: "1:2:3:4", seconds: 0, ok: false},
		{name: "negative_segment", raw: "-5:00", seconds: 0, ok: false},
		{name: "garbage", raw: "fast", seconds: 0, ok: false},
		{name: "zero_time", raw: "0:00", seconds: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seconds, ok := ParseElapsed(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.seconds, seconds, 0.001)
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "under_an_hour", seconds: 1425, expected: "23:45"},
		{name: "over_an_hour", seconds: 5025, expected: "1:23:45"},
		{name: "rounds_half_up", seconds: 1425.6, expected: "23:46"},
		{name: "non_finish", seconds: 0, expected: "-"},
		{name: "negative", seconds: -10, expected: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatElapsed(tt.seconds))
		})
	}
}

func TestParseElapsedRoundTripsFormat(t *testing.T) {
	for _, raw := range []string{"23:45", "1:02:03", "59:59"} {
		seconds, ok := ParseElapsed(raw)
		assert.True(t, ok)
		assert.Equal(t, raw, FormatElapsed(seconds))
	}
}
