package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestLabIndicator_ResolveStatus(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		low      *decimal.Decimal
		high     *decimal.Decimal
		expected IndicatorStatus
	}{
		{
			name:     "within range",
			value:    "45",
			low:      decimalPtr("30"),
			high:     decimalPtr("100"),
			expected: IndicatorStatusNormal,
		},
		{
			name:     "below range",
			value:    "12.5",
			low:      decimalPtr("30"),
			high:     decimalPtr("100"),
			expected: IndicatorStatusLow,
		},
		{
			name:     "above range",
			value:    "180",
			low:      decimalPtr("30"),
			high:     decimalPtr("100"),
			expected: IndicatorStatusHigh,
		},
		{
			name:     "on lower bound is normal",
			value:    "30",
			low:      decimalPtr("30"),
			high:     decimalPtr("100"),
			expected: IndicatorStatusNormal,
		},
		{
			name:     "missing bounds never abnormal",
			value:    "99999",
			expected: IndicatorStatusNormal,
		},
		{
			name:     "only upper bound",
			value:    "7.2",
			high:     decimalPtr("5.7"),
			expected: IndicatorStatusHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicator := &LabIndicator{
				Value:         decimal.RequireFromString(tt.value),
				ReferenceLow:  tt.low,
				ReferenceHigh: tt.high,
			}
			assert.Equal(t, tt.expected, indicator.ResolveStatus())
		})
	}
}

func TestIndicatorStatus_IsAbnormal(t *testing.T) {
	assert.False(t, IndicatorStatusNormal.IsAbnormal())
	assert.True(t, IndicatorStatusLow.IsAbnormal())
	assert.True(t, IndicatorStatusHigh.IsAbnormal())
}
