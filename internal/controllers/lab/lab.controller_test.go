package labController

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCollectedAt(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid RFC3339 timestamp",
			value:       "2026-01-15T09:30:00Z",
			expectError: false,
		},
		{
			name:        "valid with timezone offset",
			value:       "2026-01-15T09:30:00+02:00",
			expectError: false,
		},
		{
			name:        "empty string",
			value:       "",
			expectError: true,
			errorMsg:    "collectedAt is required",
		},
		{
			name:        "date only",
			value:       "2026-01-15",
			expectError: true,
			errorMsg:    "invalid collectedAt format, expected RFC3339",
		},
		{
			name:        "future timestamp",
			value:       time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			expectError: true,
			errorMsg:    "collectedAt cannot be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseCollectedAt(tt.value)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				assert.True(t, result.IsZero())
			} else {
				assert.NoError(t, err)
				assert.False(t, result.IsZero())
			}
		})
	}
}

func TestMaxIndicatorsPerResult(t *testing.T) {
	assert.Equal(t, 200, MaxIndicatorsPerResult)
}
