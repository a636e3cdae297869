package seed

import (
	"time"

	"carelink/config"
	. "carelink/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// Seed loads a small development dataset: one admin, one patient with
// an abnormal lab panel, and one caretaker holding a read-only diary
// grant from the patient.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	admin := User{
		FirstName:   "Admin",
		LastName:    "User",
		Email:       stringPtr("admin@example.com"),
		AuthSubject: "seed|admin",
		IsAdmin:     true,
		IsActive:    true,
	}
	patient := User{
		FirstName:   "Paula",
		LastName:    "Nguyen",
		Email:       stringPtr("paula@example.com"),
		AuthSubject: "seed|patient",
		IsActive:    true,
	}
	caretaker := User{
		FirstName:   "Carl",
		LastName:    "Osei",
		Email:       stringPtr("carl@example.com"),
		AuthSubject: "seed|caretaker",
		IsActive:    true,
	}

	for _, user := range []*User{&admin, &patient, &caretaker} {
		var existing User
		if err := db.First(&existing, "auth_subject = ?", user.AuthSubject).Error; err == nil {
			*user = existing
			continue
		}
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to seed user", err, "email", user.Email)
		}
	}

	relationship := CareRelationship{
		CaretakerID: caretaker.ID,
		PatientID:   patient.ID,
		Permissions: CapabilityBundle{
			Diary: DomainPermissions{Read: true},
		},
	}
	var existingRelationship CareRelationship
	err := db.First(
		&existingRelationship,
		"caretaker_id = ? AND patient_id = ?",
		caretaker.ID, patient.ID,
	).Error
	if err != nil {
		if err := db.Create(&relationship).Error; err != nil {
			return log.Err("failed to seed care relationship", err)
		}
	}

	labResult := LabResult{
		UserID:      patient.ID,
		LabName:     "City Medical Lab",
		CollectedAt: time.Now().Add(-72 * time.Hour),
		Indicators: []LabIndicator{
			{
				Code:          "vitamin_d",
				Name:          "25-hydroxy vitamin D",
				Value:         decimal.NewFromFloat(14.2),
				Unit:          "ng/mL",
				ReferenceLow:  decimalPtr(decimal.NewFromFloat(30)),
				ReferenceHigh: decimalPtr(decimal.NewFromFloat(100)),
				Status:        IndicatorStatusLow,
			},
			{
				Code:          "glucose",
				Name:          "Fasting glucose",
				Value:         decimal.NewFromFloat(88),
				Unit:          "mg/dL",
				ReferenceLow:  decimalPtr(decimal.NewFromFloat(70)),
				ReferenceHigh: decimalPtr(decimal.NewFromFloat(100)),
				Status:        IndicatorStatusNormal,
			},
		},
	}
	var existingResult LabResult
	if err := db.First(&existingResult, "user_id = ?", patient.ID).Error; err != nil {
		if err := db.Create(&labResult).Error; err != nil {
			return log.Err("failed to seed lab result", err)
		}
	}

	log.Info("Seed complete",
		"admin", admin.ID,
		"patient", patient.ID,
		"caretaker", caretaker.ID,
	)
	return nil
}
