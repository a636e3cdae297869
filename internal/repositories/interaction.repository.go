package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionRepository is append-only: interactions are never updated
// or deleted here. Removal happens only through the cascading delete
// of the parent recommendation.
type InteractionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, interaction *RecommendationInteraction) error
	ListByRecommendation(ctx context.Context, recommendationID uuid.UUID) ([]*RecommendationInteraction, error)
	CountByRecommendation(ctx context.Context, recommendationID uuid.UUID) (int64, error)
}

type interactionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInteractionRepository(db database.DB) InteractionRepository {
	return &interactionRepository{
		db:  db,
		log: logger.New("interactionRepository"),
	}
}

func (r *interactionRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	interaction *RecommendationInteraction,
) error {
	log := r.log.Function("Create")

	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	if err := gorm.G[RecommendationInteraction](tx).Create(ctx, interaction); err != nil {
		return log.Err(
			"failed to create interaction",
			err,
			"recommendationID", interaction.RecommendationID,
			"action", interaction.Action,
		)
	}

	return nil
}

func (r *interactionRepository) ListByRecommendation(
	ctx context.Context,
	recommendationID uuid.UUID,
) ([]*RecommendationInteraction, error) {
	log := r.log.Function("ListByRecommendation")

	interactions, err := gorm.G[*RecommendationInteraction](r.db.SQLWithContext(ctx)).
		Where("recommendation_id = ?", recommendationID).
		Order("created_at").
		Find(ctx)
	if err != nil {
		return nil, log.Err(
			"failed to list interactions",
			err,
			"recommendationID", recommendationID,
		)
	}

	return interactions, nil
}

func (r *interactionRepository) CountByRecommendation(
	ctx context.Context,
	recommendationID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountByRecommendation")

	count, err := gorm.G[RecommendationInteraction](r.db.SQLWithContext(ctx)).
		Where("recommendation_id = ?", recommendationID).
		Count(ctx, "id")
	if err != nil {
		return 0, log.Err(
			"failed to count interactions",
			err,
			"recommendationID", recommendationID,
		)
	}

	return count, nil
}
