package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityBundle_Grants(t *testing.T) {
	bundle := CapabilityBundle{
		Diary:       DomainPermissions{Read: true, Write: false},
		Medications: DomainPermissions{Read: true, Write: true},
	}

	tests := []struct {
		name       string
		capability Capability
		expected   bool
	}{
		{
			name:       "granted read flag",
			capability: CapabilityDiaryRead,
			expected:   true,
		},
		{
			name:       "denied write flag on same domain",
			capability: CapabilityDiaryWrite,
			expected:   false,
		},
		{
			name:       "granted write flag",
			capability: CapabilityMedicationsWrite,
			expected:   true,
		},
		{
			name:       "absent domain denies read",
			capability: CapabilityRemindersRead,
			expected:   false,
		},
		{
			name:       "absent domain denies write",
			capability: CapabilityRemindersWrite,
			expected:   false,
		},
		{
			name:       "unknown capability is denied",
			capability: Capability("diary_delete"),
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bundle.Grants(tt.capability))
		})
	}
}

func TestCapabilityBundle_ZeroValueDeniesEverything(t *testing.T) {
	var bundle CapabilityBundle

	capabilities := []Capability{
		CapabilityDiaryRead, CapabilityDiaryWrite,
		CapabilityMedicationsRead, CapabilityMedicationsWrite,
		CapabilityRemindersRead, CapabilityRemindersWrite,
	}

	for _, capability := range capabilities {
		assert.False(t, bundle.Grants(capability), "capability %s", capability)
	}
}

func TestCapabilityBundle_JSONShape(t *testing.T) {
	bundle := CapabilityBundle{
		Diary: DomainPermissions{Read: true},
	}

	data, err := json.Marshal(bundle)
	require.NoError(t, err)

	var decoded map[string]map[string]bool
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, decoded["diary"]["read"])
	assert.False(t, decoded["diary"]["write"])
	assert.False(t, decoded["medications"]["read"])
	assert.False(t, decoded["reminders"]["write"])
}
