package models

import (
	"time"

	"github.com/google/uuid"
)

// DiaryEntry is one health-diary note. Delegation-eligible: caretakers
// with the diary capability can read or write entries on behalf of the
// patient.
type DiaryEntry struct {
	BaseUUIDModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User     User      `gorm:"foreignKey:UserID"        json:"-"`
	Title    string    `gorm:"type:text"                json:"title"`
	Body     string    `gorm:"type:text;not null"       json:"body"`
	Mood     *int      `gorm:"type:int"                 json:"mood,omitempty"`
	EntryDate time.Time `gorm:"type:date;not null;index" json:"entryDate"`
}
