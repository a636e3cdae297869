package reminderController

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRemindAt(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{name: "valid RFC3339", value: "2026-09-01T08:00:00Z", expectError: false},
		{name: "empty string", value: "", expectError: true},
		{name: "date only", value: "2026-09-01", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseRemindAt(tt.value)

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, result.IsZero())
			} else {
				assert.NoError(t, err)
				assert.False(t, result.IsZero())
			}
		})
	}
}

func TestKnownRecurrences(t *testing.T) {
	assert.True(t, knownRecurrences[""])
	assert.True(t, knownRecurrences["daily"])
	assert.True(t, knownRecurrences["weekly"])
	assert.True(t, knownRecurrences["monthly"])
	assert.False(t, knownRecurrences["yearly"])
	assert.False(t, knownRecurrences["Daily"])
}
