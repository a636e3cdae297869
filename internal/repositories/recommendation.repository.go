package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"
	"errors"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RECOMMENDATIONS_CACHE_PREFIX = "recommendations"
	RECOMMENDATIONS_CACHE_EXPIRY = 10 * time.Minute
)

var nonTerminalStatuses = []RecommendationStatus{
	RecommendationStatusActive,
	RecommendationStatusViewed,
	RecommendationStatusClicked,
}

type RecommendationRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Recommendation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *RecommendationStatus) ([]*Recommendation, error)
	ListLiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Recommendation, error)
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, recommendation *Recommendation) (bool, error)
	UpdateStatusCAS(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to RecommendationStatus) (bool, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	ClearUserCache(ctx context.Context, userID uuid.UUID)
}

type recommendationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRecommendationRepository(db database.DB) RecommendationRepository {
	return &recommendationRepository{
		db:  db,
		log: logger.New("recommendationRepository"),
	}
}

func (r *recommendationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Recommendation, error) {
	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	recommendation, err := gorm.G[*Recommendation](tx).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		return nil, err
	}

	return recommendation, nil
}

func (r *recommendationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	status *RecommendationStatus,
) ([]*Recommendation, error) {
	log := r.log.Function("ListByUser")

	// Only the unfiltered listing is cached; filtered views are cheap
	// index scans.
	if status == nil {
		var cached []*Recommendation
		found, err := database.NewCacheBuilder(r.db.Cache.User, userID).
			WithContext(ctx).
			WithHash(RECOMMENDATIONS_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get recommendations from cache", "userID", userID, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	query := r.db.SQLWithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var recommendations []*Recommendation
	if err := query.Order("created_at DESC").Find(&recommendations).Error; err != nil {
		return nil, log.Err("failed to list recommendations", err, "userID", userID)
	}

	if status == nil {
		if err := database.NewCacheBuilder(r.db.Cache.User, userID).
			WithContext(ctx).
			WithHash(RECOMMENDATIONS_CACHE_PREFIX).
			WithStruct(recommendations).
			WithTTL(RECOMMENDATIONS_CACHE_EXPIRY).
			Set(); err != nil {
			log.Warn("failed to cache recommendations", "userID", userID, "error", err)
		}
	}

	return recommendations, nil
}

// ListLiveByUser returns the user's recommendations in a non-terminal
// status. The generator dedups candidates against this set.
func (r *recommendationRepository) ListLiveByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*Recommendation, error) {
	log := r.log.Function("ListLiveByUser")

	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	recommendations, err := gorm.G[*Recommendation](tx).
		Where("user_id = ? AND status IN ?", userID, nonTerminalStatuses).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list live recommendations", err, "userID", userID)
	}

	return recommendations, nil
}

// CreateIfAbsent inserts the recommendation, treating a duplicate-key
// violation on the live dedup index as a benign no-op. The boolean
// reports whether a row was actually created.
func (r *recommendationRepository) CreateIfAbsent(
	ctx context.Context,
	tx *gorm.DB,
	recommendation *Recommendation,
) (bool, error) {
	log := r.log.Function("CreateIfAbsent")

	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	if err := gorm.G[Recommendation](tx).Create(ctx, recommendation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Info(
				"duplicate live recommendation, skipping",
				"userID", recommendation.UserID,
				"type", recommendation.Type,
				"title", recommendation.Title,
			)
			return false, nil
		}
		return false, log.Err(
			"failed to create recommendation",
			err,
			"userID", recommendation.UserID,
			"title", recommendation.Title,
		)
	}

	r.ClearUserCache(ctx, recommendation.UserID)

	return true, nil
}

// UpdateStatusCAS advances the status only if the row still holds the
// status the caller read. The boolean reports whether the row was
// updated; false means a concurrent writer got there first and the
// caller should re-read and re-apply the transition table.
func (r *recommendationRepository) UpdateStatusCAS(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	from, to RecommendationStatus,
) (bool, error) {
	log := r.log.Function("UpdateStatusCAS")

	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	rows, err := gorm.G[Recommendation](tx).
		Where("id = ? AND status = ?", id, from).
		Update(ctx, "status", to)
	if err != nil {
		return false, log.Err(
			"failed to update recommendation status",
			err,
			"recommendationID", id,
			"from", from,
			"to", to,
		)
	}

	return rows > 0, nil
}

// DeleteCascade hard-deletes the recommendation; interactions go with
// it via the foreign-key cascade. Administrative use only.
func (r *recommendationRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeleteCascade")

	recommendation, err := r.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}

	err = r.db.SQLWithContext(ctx).
		Unscoped().
		Delete(&Recommendation{}, "id = ?", id).Error
	if err != nil {
		return log.Err("failed to delete recommendation", err, "recommendationID", id)
	}

	r.ClearUserCache(ctx, recommendation.UserID)

	return nil
}

func (r *recommendationRepository) ClearUserCache(ctx context.Context, userID uuid.UUID) {
	if err := database.NewCacheBuilder(r.db.Cache.User, userID).
		WithContext(ctx).
		WithHash(RECOMMENDATIONS_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Warn("failed to clear recommendation cache", "userID", userID, "error", err)
	}
}
