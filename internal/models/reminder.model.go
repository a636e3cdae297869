package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a scheduled prompt (take medication, book a retest).
// Delegation-eligible via the reminders capability. Delivery of the
// reminder itself is handled by an external notification service.
type Reminder struct {
	BaseUUIDModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User        User       `gorm:"foreignKey:UserID"        json:"-"`
	Title       string     `gorm:"type:text;not null"       json:"title"`
	Description string     `gorm:"type:text"                json:"description"`
	RemindAt    time.Time  `gorm:"type:timestamp;not null;index" json:"remindAt"`
	Recurrence  string     `gorm:"type:varchar(50)"         json:"recurrence"`
	CompletedAt *time.Time `gorm:"type:timestamp"           json:"completedAt,omitempty"`
}
