package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IndicatorStatus string

const (
	IndicatorStatusNormal IndicatorStatus = "normal"
	IndicatorStatusLow    IndicatorStatus = "low"
	IndicatorStatusHigh   IndicatorStatus = "high"
)

// IsAbnormal reports whether the indicator fell outside its reference
// range.
func (s IndicatorStatus) IsAbnormal() bool {
	return s == IndicatorStatusLow || s == IndicatorStatusHigh
}

// LabResult is one recorded lab panel for a patient. Parsing of the
// source report (OCR, upload handling) happens upstream; this service
// receives structured indicator rows.
type LabResult struct {
	BaseUUIDModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User        User      `gorm:"foreignKey:UserID"        json:"-"`
	LabName     string    `gorm:"type:text"                json:"labName"`
	CollectedAt time.Time `gorm:"type:timestamp;not null;index" json:"collectedAt"`

	Indicators []LabIndicator `gorm:"foreignKey:LabResultID;constraint:OnDelete:CASCADE" json:"indicators"`
}

// LabIndicator is one measured value within a panel. Status is set by
// the recording boundary from the value and the reference range and is
// read-only afterwards.
type LabIndicator struct {
	BaseUUIDModel
	LabResultID   uuid.UUID        `gorm:"type:uuid;not null;index"        json:"labResultId"`
	Code          string           `gorm:"type:varchar(50);not null;index" json:"code"`
	Name          string           `gorm:"type:text;not null"              json:"name"`
	Value         decimal.Decimal  `gorm:"type:decimal(12,4);not null"     json:"value"`
	Unit          string           `gorm:"type:varchar(20)"                json:"unit"`
	ReferenceLow  *decimal.Decimal `gorm:"type:decimal(12,4)"              json:"referenceLow,omitempty"`
	ReferenceHigh *decimal.Decimal `gorm:"type:decimal(12,4)"              json:"referenceHigh,omitempty"`
	Status        IndicatorStatus  `gorm:"type:varchar(10);not null;default:'normal'" json:"status"`
}

// ResolveStatus classifies the value against the reference range.
// A missing bound never trips that side of the range.
func (i *LabIndicator) ResolveStatus() IndicatorStatus {
	if i.ReferenceLow != nil && i.Value.LessThan(*i.ReferenceLow) {
		return IndicatorStatusLow
	}
	if i.ReferenceHigh != nil && i.Value.GreaterThan(*i.ReferenceHigh) {
		return IndicatorStatusHigh
	}
	return IndicatorStatusNormal
}
