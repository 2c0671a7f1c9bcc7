package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"e164", "+14155552671", true},
		{"local digits", "4155552671", true},
		{"with separators", "+1 (415) 555-2671", true},
		{"too short", "+1", false},
		{"letters", "call-me", false},
		{"leading zero", "0123", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.phone))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := BeginningOfDay(mustParse(t, "2026-03-01T15:30:00Z"))
	end := mustParse(t, "2026-03-04T02:00:00Z")

	assert.Equal(t, 3, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(end, end))
}

func TestGenerateRandomStringLengthAndAlphabet(t *testing.T) {
	s := GenerateRandomString(6)
	assert.Len(t, s, 6)
	for _, r := range s {
		assert.Contains(t, randomAlphabet, string(r))
	}

	// Two draws colliding would mean the generator is broken
	assert.NotEqual(t, GenerateRandomString(12), GenerateRandomString(12))
}
