package models

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one entry in a patient's medication list.
// Delegation-eligible via the medications capability.
type Medication struct {
	BaseUUIDModel
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User      User       `gorm:"foreignKey:UserID"        json:"-"`
	Name      string     `gorm:"type:text;not null"       json:"name"`
	Dosage    string     `gorm:"type:varchar(100)"        json:"dosage"`
	Frequency string     `gorm:"type:varchar(100)"        json:"frequency"`
	StartedAt *time.Time `gorm:"type:date"                json:"startedAt,omitempty"`
	EndedAt   *time.Time `gorm:"type:date"                json:"endedAt,omitempty"`
	Notes     string     `gorm:"type:text"                json:"notes"`
}
