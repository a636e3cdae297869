package diaryController

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEntryDate(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid date",
			value:       "2026-03-01",
			expectError: false,
		},
		{
			name:        "empty string",
			value:       "",
			expectError: true,
			errorMsg:    "entryDate is required",
		},
		{
			name:        "RFC3339 rejected",
			value:       "2026-03-01T10:00:00Z",
			expectError: true,
			errorMsg:    "invalid entryDate format, expected YYYY-MM-DD",
		},
		{
			name:        "not a date",
			value:       "yesterday",
			expectError: true,
			errorMsg:    "invalid entryDate format, expected YYYY-MM-DD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseEntryDate(tt.value)

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
