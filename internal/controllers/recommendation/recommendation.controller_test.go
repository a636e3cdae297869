package recommendationController

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	. "carelink/internal/models"
	"carelink/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRecommendationRepo struct {
	repositories.RecommendationRepository

	recommendation *Recommendation
	getErr         error
	reads          int

	casUpdated     bool
	casCalls       int
	casFrom, casTo RecommendationStatus

	cacheClears int
	deleteCalls int
	deleteErr   error
}

// GetByID hands out a copy so each retry attempt reads from the stored
// state, not from a row mutated by a previous attempt.
func (s *stubRecommendationRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Recommendation, error) {
	s.reads++
	if s.getErr != nil {
		return nil, s.getErr
	}
	recommendation := *s.recommendation
	return &recommendation, nil
}

func (s *stubRecommendationRepo) UpdateStatusCAS(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	from, to RecommendationStatus,
) (bool, error) {
	s.casCalls++
	s.casFrom, s.casTo = from, to
	return s.casUpdated, nil
}

func (s *stubRecommendationRepo) ClearUserCache(ctx context.Context, userID uuid.UUID) {
	s.cacheClears++
}

func (s *stubRecommendationRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	s.deleteCalls++
	return s.deleteErr
}

type stubInteractionRepo struct {
	repositories.InteractionRepository

	created    []*RecommendationInteraction
	countCalls int
}

func (s *stubInteractionRepo) Create(
	ctx context.Context,
	tx *gorm.DB,
	interaction *RecommendationInteraction,
) error {
	s.created = append(s.created, interaction)
	return nil
}

func (s *stubInteractionRepo) CountByRecommendation(
	ctx context.Context,
	recommendationID uuid.UUID,
) (int64, error) {
	s.countCalls++
	return int64(len(s.created)), nil
}

// stubTransaction runs the function directly and discards interaction
// rows written by a failed attempt, mirroring a rollback.
type stubTransaction struct {
	interactions *stubInteractionRepo
}

func (s *stubTransaction) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	before := len(s.interactions.created)
	if err := fn(ctx, nil); err != nil {
		s.interactions.created = s.interactions.created[:before]
		return err
	}
	return nil
}

func newStubController(
	recommendations *stubRecommendationRepo,
	interactions *stubInteractionRepo,
) *RecommendationController {
	return &RecommendationController{
		recommendationRepo: recommendations,
		interactionRepo:    interactions,
		transactionService: &stubTransaction{interactions: interactions},
		log:                logger.New("recommendationController"),
	}
}

func TestMarshalMetadata(t *testing.T) {
	t.Run("nil map produces no payload", func(t *testing.T) {
		raw, err := marshalMetadata(nil)
		assert.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("empty map produces no payload", func(t *testing.T) {
		raw, err := marshalMetadata(map[string]any{})
		assert.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("values survive the round trip", func(t *testing.T) {
		raw, err := marshalMetadata(map[string]any{
			"source": "mobile",
			"screen": "recommendations",
		})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "mobile", decoded["source"])
		assert.Equal(t, "recommendations", decoded["screen"])
	})
}

func TestRecordInteraction_InvalidAction(t *testing.T) {
	controller := &RecommendationController{
		log: logger.New("recommendationController"),
	}

	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	tests := []struct {
		name   string
		action InteractionAction
	}{
		{name: "empty action", action: InteractionAction("")},
		{name: "unknown action", action: InteractionAction("like")},
		{name: "wrong case", action: InteractionAction("VIEW")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := controller.RecordInteraction(
				context.Background(),
				user,
				uuid.New(),
				&RecordInteractionRequest{Action: tt.action},
			)

			assert.Nil(t, response)
			assert.True(t, errors.Is(err, ErrInvalidAction))
		})
	}
}

func TestMaxStatusRetries(t *testing.T) {
	assert.Equal(t, 3, maxStatusRetries)
}

func TestRecordInteraction_MissingRecommendation(t *testing.T) {
	recommendations := &stubRecommendationRepo{getErr: gorm.ErrRecordNotFound}
	interactions := &stubInteractionRepo{}
	controller := newStubController(recommendations, interactions)

	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	response, err := controller.RecordInteraction(
		context.Background(),
		user,
		uuid.New(),
		&RecordInteractionRequest{Action: InteractionActionView},
	)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, interactions.created)
}

func TestRecordInteraction_OwnershipMismatchReadsAsNotFound(t *testing.T) {
	owner := uuid.New()
	caller := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	recommendations := &stubRecommendationRepo{
		recommendation: &Recommendation{
			BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
			UserID:        owner,
			Status:        RecommendationStatusActive,
		},
	}
	interactions := &stubInteractionRepo{}
	controller := newStubController(recommendations, interactions)

	response, err := controller.RecordInteraction(
		context.Background(),
		caller,
		recommendations.recommendation.ID,
		&RecordInteractionRequest{Action: InteractionActionView},
	)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, interactions.created)
	assert.Zero(t, recommendations.casCalls)
}

func TestRecordInteraction_TerminalStatusAppendsWithoutTransition(t *testing.T) {
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	recommendations := &stubRecommendationRepo{
		recommendation: &Recommendation{
			BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
			UserID:        user.ID,
			Status:        RecommendationStatusDismissed,
		},
	}
	interactions := &stubInteractionRepo{}
	controller := newStubController(recommendations, interactions)

	response, err := controller.RecordInteraction(
		context.Background(),
		user,
		recommendations.recommendation.ID,
		&RecordInteractionRequest{Action: InteractionActionPurchase},
	)

	require.NoError(t, err)
	require.NotNil(t, response)

	// Terminal status absorbs the action, but the interaction is still
	// logged.
	assert.Equal(t, RecommendationStatusDismissed, response.Recommendation.Status)
	require.Len(t, interactions.created, 1)
	assert.Equal(t, InteractionActionPurchase, interactions.created[0].Action)
	assert.Zero(t, recommendations.casCalls)
	assert.Zero(t, recommendations.cacheClears)
}

func TestRecordInteraction_TransitionUpdatesStatus(t *testing.T) {
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	recommendations := &stubRecommendationRepo{
		recommendation: &Recommendation{
			BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
			UserID:        user.ID,
			Status:        RecommendationStatusActive,
		},
		casUpdated: true,
	}
	interactions := &stubInteractionRepo{}
	controller := newStubController(recommendations, interactions)

	response, err := controller.RecordInteraction(
		context.Background(),
		user,
		recommendations.recommendation.ID,
		&RecordInteractionRequest{Action: InteractionActionView},
	)

	require.NoError(t, err)
	require.NotNil(t, response)

	assert.Equal(t, RecommendationStatusViewed, response.Recommendation.Status)
	assert.Equal(t, 1, recommendations.casCalls)
	assert.Equal(t, RecommendationStatusActive, recommendations.casFrom)
	assert.Equal(t, RecommendationStatusViewed, recommendations.casTo)
	assert.Equal(t, 1, recommendations.cacheClears)
	require.Len(t, interactions.created, 1)
	assert.Equal(t, InteractionActionView, interactions.created[0].Action)
}

func TestRecordInteraction_ContentionExhaustsRetries(t *testing.T) {
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	recommendations := &stubRecommendationRepo{
		recommendation: &Recommendation{
			BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
			UserID:        user.ID,
			Status:        RecommendationStatusActive,
		},
		casUpdated: false,
	}
	interactions := &stubInteractionRepo{}
	controller := newStubController(recommendations, interactions)

	response, err := controller.RecordInteraction(
		context.Background(),
		user,
		recommendations.recommendation.ID,
		&RecordInteractionRequest{Action: InteractionActionDismiss},
	)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, ErrConflict)

	// Each attempt re-reads the row and retries the compare-and-set.
	assert.Equal(t, maxStatusRetries, recommendations.reads)
	assert.Equal(t, maxStatusRetries, recommendations.casCalls)

	// A lost race rolls back the whole attempt, interaction included.
	assert.Empty(t, interactions.created)
}

func TestAdminDelete(t *testing.T) {
	t.Run("reports interaction count on delete", func(t *testing.T) {
		recommendations := &stubRecommendationRepo{}
		interactions := &stubInteractionRepo{}
		controller := newStubController(recommendations, interactions)

		err := controller.AdminDelete(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, 1, recommendations.deleteCalls)
		assert.Equal(t, 1, interactions.countCalls)
	})

	t.Run("missing recommendation maps to not found", func(t *testing.T) {
		recommendations := &stubRecommendationRepo{deleteErr: gorm.ErrRecordNotFound}
		interactions := &stubInteractionRepo{}
		controller := newStubController(recommendations, interactions)

		err := controller.AdminDelete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
