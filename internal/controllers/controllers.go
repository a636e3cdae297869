package controllers

import (
	"carelink/config"
	"carelink/internal/database"
	"carelink/internal/events"
	"carelink/internal/repositories"
	"carelink/internal/services"

	careController "carelink/internal/controllers/care"
	diaryController "carelink/internal/controllers/diary"
	labController "carelink/internal/controllers/lab"
	medicationController "carelink/internal/controllers/medication"
	recommendationController "carelink/internal/controllers/recommendation"
	reminderController "carelink/internal/controllers/reminder"
)

type Controllers struct {
	Care           careController.CareControllerInterface
	Recommendation recommendationController.RecommendationControllerInterface
	Lab            labController.LabControllerInterface
	Diary          diaryController.DiaryControllerInterface
	Medication     medicationController.MedicationControllerInterface
	Reminder       reminderController.ReminderControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Care:           careController.New(repos, services, db),
		Recommendation: recommendationController.New(repos, services, eventBus, db),
		Lab:            labController.New(repos, services, db),
		Diary:          diaryController.New(repos, services, db),
		Medication:     medicationController.New(repos, services, db),
		Reminder:       reminderController.New(repos, services, db),
	}
}
