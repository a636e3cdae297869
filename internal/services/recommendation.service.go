package services

import (
	"carelink/internal/events"
	"carelink/internal/repositories"
	"context"
	"encoding/json"
	"time"

	. "carelink/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// How far back abnormal indicators still count as an active signal.
const generationWindow = 90 * 24 * time.Hour

// RecommendationService turns a patient's abnormal lab findings into
// recommendations. Generation is a one-shot batch: read signals, map
// them through the rule table, drop candidates that duplicate a live
// recommendation, persist the rest as ACTIVE.
type RecommendationService struct {
	labResultRepo      repositories.LabResultRepository
	recommendationRepo repositories.RecommendationRepository
	eventBus           *events.EventBus
	log                logger.Logger
}

func NewRecommendationService(
	repos repositories.Repository,
	eventBus *events.EventBus,
) *RecommendationService {
	return &RecommendationService{
		labResultRepo:      repos.LabResult,
		recommendationRepo: repos.Recommendation,
		eventBus:           eventBus,
		log:                logger.New("recommendationService"),
	}
}

type candidate struct {
	Type      RecommendationType
	Title     string
	CompanyID *uuid.UUID
	ProductID *uuid.UUID
}

// ruleTable maps an abnormal indicator (code plus direction) to the
// recommendations it should produce. Codes follow the lowercase
// convention of the lab intake boundary.
var ruleTable = map[string]map[IndicatorStatus][]candidate{
	"vitamin_d": {
		IndicatorStatusLow: {
			{Type: RecommendationTypeSupplement, Title: "Vitamin D3 supplement"},
			{Type: RecommendationTypeLabRetest, Title: "Re-test vitamin D in 3 months"},
		},
	},
	"ferritin": {
		IndicatorStatusLow: {
			{Type: RecommendationTypeSupplement, Title: "Iron supplement"},
		},
		IndicatorStatusHigh: {
			{Type: RecommendationTypeClinicVisit, Title: "Discuss elevated ferritin with a physician"},
		},
	},
	"b12": {
		IndicatorStatusLow: {
			{Type: RecommendationTypeSupplement, Title: "Vitamin B12 supplement"},
		},
	},
	"hemoglobin": {
		IndicatorStatusLow: {
			{Type: RecommendationTypeClinicVisit, Title: "Discuss anemia findings with a physician"},
		},
	},
	"tsh": {
		IndicatorStatusLow: {
			{Type: RecommendationTypeClinicVisit, Title: "Endocrinology consultation"},
		},
		IndicatorStatusHigh: {
			{Type: RecommendationTypeClinicVisit, Title: "Endocrinology consultation"},
			{Type: RecommendationTypeLabRetest, Title: "Re-test TSH in 6 weeks"},
		},
	},
	"glucose": {
		IndicatorStatusHigh: {
			{Type: RecommendationTypeLabRetest, Title: "HbA1c follow-up test"},
		},
	},
	"hba1c": {
		IndicatorStatusHigh: {
			{Type: RecommendationTypeClinicVisit, Title: "Diabetes risk consultation"},
		},
	},
	"ldl": {
		IndicatorStatusHigh: {
			{Type: RecommendationTypeLabRetest, Title: "Lipid panel re-test"},
		},
	},
	"crp": {
		IndicatorStatusHigh: {
			{Type: RecommendationTypeLabRetest, Title: "Repeat CRP test"},
		},
	},
}

// dedupKey identifies "the same" recommendation across regenerations.
type dedupKey struct {
	Type      RecommendationType
	Title     string
	CompanyID uuid.UUID // uuid.Nil when absent
}

func keyOf(recommendationType RecommendationType, title string, companyID *uuid.UUID) dedupKey {
	key := dedupKey{Type: recommendationType, Title: title}
	if companyID != nil {
		key.CompanyID = *companyID
	}
	return key
}

// GenerateForPatient produces the new recommendations for a patient's
// recent abnormal findings. Idempotent: with unchanged signals a
// second run creates nothing, because every candidate collides with a
// live recommendation either here or on the store's dedup index.
func (s *RecommendationService) GenerateForPatient(
	ctx context.Context,
	patientID uuid.UUID,
) ([]*Recommendation, error) {
	log := s.log.Function("GenerateForPatient")

	since := time.Now().Add(-generationWindow)
	indicators, err := s.labResultRepo.ListAbnormalIndicators(ctx, nil, patientID, since)
	if err != nil {
		return nil, log.Err("failed to load abnormal indicators", err, "patientID", patientID)
	}

	if len(indicators) == 0 {
		return nil, nil
	}

	live, err := s.recommendationRepo.ListLiveByUser(ctx, nil, patientID)
	if err != nil {
		return nil, log.Err("failed to load live recommendations", err, "patientID", patientID)
	}

	liveKeys := make(map[dedupKey]struct{}, len(live))
	for _, recommendation := range live {
		liveKeys[keyOf(recommendation.Type, recommendation.Title, recommendation.CompanyID)] = struct{}{}
	}

	created := make([]*Recommendation, 0)
	for _, indicator := range indicators {
		for _, c := range ruleTable[indicator.Code][indicator.Status] {
			key := keyOf(c.Type, c.Title, c.CompanyID)
			if _, exists := liveKeys[key]; exists {
				continue
			}
			// Claim the key within this batch too: several indicators
			// can map to the same candidate in one run.
			liveKeys[key] = struct{}{}

			metadata, err := json.Marshal(map[string]any{
				"indicatorCode":   indicator.Code,
				"indicatorValue":  indicator.Value,
				"indicatorStatus": indicator.Status,
			})
			if err != nil {
				return nil, log.Err("failed to marshal metadata", err, "indicator", indicator.Code)
			}

			analysisID := indicator.LabResultID
			recommendation := &Recommendation{
				UserID:     patientID,
				Type:       c.Type,
				Title:      c.Title,
				CompanyID:  c.CompanyID,
				ProductID:  c.ProductID,
				AnalysisID: &analysisID,
				Status:     RecommendationStatusActive,
				Metadata:   datatypes.JSON(metadata),
			}

			inserted, err := s.recommendationRepo.CreateIfAbsent(ctx, nil, recommendation)
			if err != nil {
				return nil, err
			}
			if inserted {
				created = append(created, recommendation)
			}
		}
	}

	if len(created) > 0 {
		s.publishGenerated(patientID, len(created))
	}

	log.Info(
		"generation complete",
		"patientID", patientID,
		"abnormalIndicators", len(indicators),
		"created", len(created),
	)

	return created, nil
}

func (s *RecommendationService) publishGenerated(patientID uuid.UUID, count int) {
	if s.eventBus == nil {
		return
	}

	log := s.log.Function("publishGenerated")

	err := s.eventBus.Publish(events.RECOMMENDATIONS_CHANNEL, events.Event{
		Type:   events.RECOMMENDATIONS_GENERATED,
		UserID: &patientID,
		Data: map[string]any{
			"count": count,
		},
	})
	if err != nil {
		log.Warn("failed to publish generation event", "patientID", patientID, "error", err)
	}

	if err := s.eventBus.PublishCacheInvalidation(patientID); err != nil {
		log.Warn("failed to publish cache invalidation", "patientID", patientID, "error", err)
	}
}
