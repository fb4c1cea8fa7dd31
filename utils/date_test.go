package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeIn(t *testing.T) {
	brisbane := time.FixedZone("AEST", 10*60*60)
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"RFC3339", "2025-10-13T09:30:00+10:00", time.Date(2025, 10, 12, 23, 30, 0, 0, time.UTC)},
		{"RFC3339 nano", "2025-10-13T09:30:00.123Z", time.Date(2025, 10, 13, 9, 30, 0, 123000000, time.UTC)},
		{"space separated", "2025-10-13 09:30:00", time.Date(2025, 10, 13, 9, 30, 0, 0, brisbane)},
		{"no seconds", "2025-10-13T09:30", time.Date(2025, 10, 13, 9, 30, 0, 0, brisbane)},
		{"date only", "2025-10-13", time.Date(2025, 10, 13, 0, 0, 0, 0, brisbane)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeIn(tt.input, brisbane)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}

	got, err := ParseTimeIn("2025-10-13", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())

	_, err = ParseTimeIn("", brisbane)
	assert.Error(t, err)
	_, err = ParseTimeIn("13/10/2025", brisbane)
	assert.Error(t, err)
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
}
