package services

import (
	"carelink/internal/repositories"
	"context"
	"testing"
	"time"

	. "carelink/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLabResultRepo struct {
	repositories.LabResultRepository

	indicators []*LabIndicator
}

func (s *stubLabResultRepo) ListAbnormalIndicators(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	since time.Time,
) ([]*LabIndicator, error) {
	return s.indicators, nil
}

// stubRecommendationRepo mimics the store's live-dedup behavior:
// inserts land in rows, and the partial unique index is simulated by
// rejecting a second live row with the same dedup key.
type stubRecommendationRepo struct {
	repositories.RecommendationRepository

	rows []*Recommendation
}

func (s *stubRecommendationRepo) ListLiveByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*Recommendation, error) {
	var live []*Recommendation
	for _, row := range s.rows {
		if row.UserID == userID && !row.Status.IsTerminal() {
			live = append(live, row)
		}
	}
	return live, nil
}

func (s *stubRecommendationRepo) CreateIfAbsent(
	ctx context.Context,
	tx *gorm.DB,
	recommendation *Recommendation,
) (bool, error) {
	for _, row := range s.rows {
		if row.UserID == recommendation.UserID &&
			row.Type == recommendation.Type &&
			row.Title == recommendation.Title &&
			!row.Status.IsTerminal() {
			return false, nil
		}
	}
	s.rows = append(s.rows, recommendation)
	return true, nil
}

func abnormalIndicator(code string, status IndicatorStatus, value string) *LabIndicator {
	return &LabIndicator{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		LabResultID:   uuid.New(),
		Code:          code,
		Value:         decimal.RequireFromString(value),
		Status:        status,
	}
}

func newGeneratorForTest(
	labRepo repositories.LabResultRepository,
	recommendationRepo repositories.RecommendationRepository,
) *RecommendationService {
	return NewRecommendationService(repositories.Repository{
		LabResult:      labRepo,
		Recommendation: recommendationRepo,
	}, nil)
}

func TestGenerateForPatient_MapsAbnormalFindings(t *testing.T) {
	patient := uuid.New()
	labRepo := &stubLabResultRepo{indicators: []*LabIndicator{
		abnormalIndicator("vitamin_d", IndicatorStatusLow, "12.5"),
	}}
	recommendationRepo := &stubRecommendationRepo{}
	service := newGeneratorForTest(labRepo, recommendationRepo)

	created, err := service.GenerateForPatient(context.Background(), patient)
	require.NoError(t, err)
	require.Len(t, created, 2)

	types := map[RecommendationType]bool{}
	for _, recommendation := range created {
		assert.Equal(t, patient, recommendation.UserID)
		assert.Equal(t, RecommendationStatusActive, recommendation.Status)
		assert.NotNil(t, recommendation.AnalysisID)
		assert.NotEmpty(t, recommendation.Metadata)
		types[recommendation.Type] = true
	}
	assert.True(t, types[RecommendationTypeSupplement])
	assert.True(t, types[RecommendationTypeLabRetest])
}

func TestGenerateForPatient_IdempotentWithUnchangedInput(t *testing.T) {
	patient := uuid.New()
	labRepo := &stubLabResultRepo{indicators: []*LabIndicator{
		abnormalIndicator("vitamin_d", IndicatorStatusLow, "12.5"),
		abnormalIndicator("ferritin", IndicatorStatusLow, "8"),
	}}
	recommendationRepo := &stubRecommendationRepo{}
	service := newGeneratorForTest(labRepo, recommendationRepo)

	first, err := service.GenerateForPatient(context.Background(), patient)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := service.GenerateForPatient(context.Background(), patient)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, recommendationRepo.rows, len(first))
}

func TestGenerateForPatient_SameKeyFromTwoFindingsInOneBatch(t *testing.T) {
	patient := uuid.New()
	// Two abnormal TSH readings from different panels map to the same
	// candidates; only one recommendation per key may be created.
	labRepo := &stubLabResultRepo{indicators: []*LabIndicator{
		abnormalIndicator("tsh", IndicatorStatusHigh, "9.1"),
		abnormalIndicator("tsh", IndicatorStatusHigh, "8.4"),
	}}
	recommendationRepo := &stubRecommendationRepo{}
	service := newGeneratorForTest(labRepo, recommendationRepo)

	created, err := service.GenerateForPatient(context.Background(), patient)
	require.NoError(t, err)
	assert.Len(t, created, 2) // consultation + retest, once each
}

func TestGenerateForPatient_ConcludedCycleAllowsReoffer(t *testing.T) {
	patient := uuid.New()
	labRepo := &stubLabResultRepo{indicators: []*LabIndicator{
		abnormalIndicator("b12", IndicatorStatusLow, "150"),
	}}
	recommendationRepo := &stubRecommendationRepo{rows: []*Recommendation{
		{
			UserID: patient,
			Type:   RecommendationTypeSupplement,
			Title:  "Vitamin B12 supplement",
			Status: RecommendationStatusDismissed,
		},
	}}
	service := newGeneratorForTest(labRepo, recommendationRepo)

	created, err := service.GenerateForPatient(context.Background(), patient)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, RecommendationStatusActive, created[0].Status)
}

func TestGenerateForPatient_LiveDuplicateBlocksCandidate(t *testing.T) {
	patient := uuid.New()
	labRepo := &stubLabResultRepo{indicators: []*LabIndicator{
		abnormalIndicator("b12", IndicatorStatusLow, "150"),
	}}
	recommendationRepo := &stubRecommendationRepo{rows: []*Recommendation{
		{
			UserID: patient,
			Type:   RecommendationTypeSupplement,
			Title:  "Vitamin B12 supplement",
			Status: RecommendationStatusViewed,
		},
	}}
	service := newGeneratorForTest(labRepo, recommendationRepo)

	created, err := service.GenerateForPatient(context.Background(), patient)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGenerateForPatient_NoSignalsNoRows(t *testing.T) {
	service := newGeneratorForTest(&stubLabResultRepo{}, &stubRecommendationRepo{})

	created, err := service.GenerateForPatient(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGenerateForPatient_NormalFindingsProduceNothing(t *testing.T) {
	// An indicator code without a rule for its direction is ignored.
	labRepo := &stubLabResultRepo{indicators: []*LabIndicator{
		abnormalIndicator("glucose", IndicatorStatusLow, "2.9"),
	}}
	service := newGeneratorForTest(labRepo, &stubRecommendationRepo{})

	created, err := service.GenerateForPatient(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, created)
}
