package repositories

import (
	"carelink/internal/database"
)

type Repository struct {
	User             UserRepository
	CareRelationship CareRelationshipRepository
	LabResult        LabResultRepository
	Recommendation   RecommendationRepository
	Interaction      InteractionRepository
	Diary            DiaryRepository
	Medication       MedicationRepository
	Reminder         ReminderRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:             NewUserRepository(db),
		CareRelationship: NewCareRelationshipRepository(db),
		LabResult:        NewLabResultRepository(db),
		Recommendation:   NewRecommendationRepository(db),
		Interaction:      NewInteractionRepository(db),
		Diary:            NewDiaryRepository(db),
		Medication:       NewMedicationRepository(db),
		Reminder:         NewReminderRepository(db),
	}
}
