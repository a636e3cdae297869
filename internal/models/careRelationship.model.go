package models

import (
	"github.com/google/uuid"
)

// Capability names one delegable permission. The set is closed: three
// resource domains, each with an independent read and write flag.
type Capability string

const (
	CapabilityDiaryRead        Capability = "diary_read"
	CapabilityDiaryWrite       Capability = "diary_write"
	CapabilityMedicationsRead  Capability = "medications_read"
	CapabilityMedicationsWrite Capability = "medications_write"
	CapabilityRemindersRead    Capability = "reminders_read"
	CapabilityRemindersWrite   Capability = "reminders_write"
)

type DomainPermissions struct {
	Read  bool `gorm:"type:bool;default:false" json:"read"`
	Write bool `gorm:"type:bool;default:false" json:"write"`
}

// CapabilityBundle is the fixed-schema permission grant attached to a
// care relationship. The persisted JSON shape is the nested
// {domain: {read, write}} object; columns are flattened per domain.
type CapabilityBundle struct {
	Diary       DomainPermissions `gorm:"embedded;embeddedPrefix:diary_"       json:"diary"`
	Medications DomainPermissions `gorm:"embedded;embeddedPrefix:medications_" json:"medications"`
	Reminders   DomainPermissions `gorm:"embedded;embeddedPrefix:reminders_"   json:"reminders"`
}

// Grants reports whether the bundle allows the given capability.
// Default-deny: a zero-value bundle or an unknown capability is false.
func (b CapabilityBundle) Grants(capability Capability) bool {
	switch capability {
	case CapabilityDiaryRead:
		return b.Diary.Read
	case CapabilityDiaryWrite:
		return b.Diary.Write
	case CapabilityMedicationsRead:
		return b.Medications.Read
	case CapabilityMedicationsWrite:
		return b.Medications.Write
	case CapabilityRemindersRead:
		return b.Reminders.Read
	case CapabilityRemindersWrite:
		return b.Reminders.Write
	default:
		return false
	}
}

// CareRelationship is one delegation grant from a patient to a
// caretaker. At most one row exists per (caretaker, patient) pair.
type CareRelationship struct {
	BaseUUIDModel
	CaretakerID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_caretaker_patient,where:deleted_at IS NULL" json:"caretakerId"`
	Caretaker   User             `gorm:"foreignKey:CaretakerID"                                                        json:"caretaker"`
	PatientID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_caretaker_patient,where:deleted_at IS NULL;index" json:"patientId"`
	Patient     User             `gorm:"foreignKey:PatientID"                                                          json:"patient"`
	Permissions CapabilityBundle `gorm:"embedded"                                                                      json:"permissions"`
}
