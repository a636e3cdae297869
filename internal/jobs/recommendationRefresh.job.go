package jobs

import (
	"context"
	"time"

	"carelink/internal/repositories"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// How far back lab activity marks a patient for the nightly sweep.
const sweepWindow = 30 * 24 * time.Hour

// RecommendationRefreshJob re-runs recommendation generation for every
// patient with recent lab activity. Generation is idempotent, so the
// sweep only picks up signals the synchronous intake path missed, for
// example a generation failure after a committed panel.
type RecommendationRefreshJob struct {
	labResultRepo         repositories.LabResultRepository
	recommendationService *services.RecommendationService
	log                   logger.Logger
	schedule              services.Schedule
}

func NewRecommendationRefreshJob(
	labResultRepo repositories.LabResultRepository,
	recommendationService *services.RecommendationService,
	schedule services.Schedule,
) *RecommendationRefreshJob {
	log := logger.New("recommendationRefreshJob")
	log.Info("Creating recommendation refresh job", "schedule", schedule)

	return &RecommendationRefreshJob{
		labResultRepo:         labResultRepo,
		recommendationService: recommendationService,
		log:                   log,
		schedule:              schedule,
	}
}

func (j *RecommendationRefreshJob) Name() string {
	return "DailyRecommendationRefresh"
}

func (j *RecommendationRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	since := time.Now().Add(-sweepWindow)
	patientIDs, err := j.labResultRepo.ListUserIDsWithResultsSince(ctx, since)
	if err != nil {
		return log.Err("failed to list patients with recent labs", err)
	}

	log.Info("Starting recommendation sweep", "patients", len(patientIDs))

	var failures int
	var created int
	for _, patientID := range patientIDs {
		recommendations, err := j.recommendationService.GenerateForPatient(ctx, patientID)
		if err != nil {
			// One bad patient must not stop the sweep.
			log.Warn("generation failed during sweep", "patientID", patientID, "error", err)
			failures++
			continue
		}
		created += len(recommendations)
	}

	if failures > 0 {
		return log.Error(
			"recommendation sweep finished with failures",
			"patients", len(patientIDs),
			"failures", failures,
			"created", created,
		)
	}

	log.Info(
		"Recommendation sweep completed",
		"patients", len(patientIDs),
		"created", created,
	)
	return nil
}

func (j *RecommendationRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
