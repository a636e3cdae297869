package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LabResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *LabResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LabResult, error)
	ListAbnormalIndicators(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*LabIndicator, error)
	ListUserIDsWithResultsSince(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

type labResultRepository struct {
	db  database.DB
	log logger.Logger
}

func NewLabResultRepository(db database.DB) LabResultRepository {
	return &labResultRepository{
		db:  db,
		log: logger.New("labResultRepository"),
	}
}

func (r *labResultRepository) Create(ctx context.Context, tx *gorm.DB, result *LabResult) error {
	log := r.log.Function("Create")

	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	// Indicators are created through the association in one statement.
	if err := gorm.G[LabResult](tx).Create(ctx, result); err != nil {
		return log.Err("failed to create lab result", err, "userID", result.UserID)
	}

	return nil
}

func (r *labResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	var result LabResult
	err := r.db.SQLWithContext(ctx).
		Preload("Indicators").
		First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *labResultRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*LabResult, error) {
	log := r.log.Function("ListByUser")

	var results []*LabResult
	err := r.db.SQLWithContext(ctx).
		Preload("Indicators").
		Where("user_id = ?", userID).
		Order("collected_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, log.Err("failed to list lab results", err, "userID", userID)
	}

	return results, nil
}

// ListAbnormalIndicators returns the out-of-range indicators from all
// panels the user recorded since the cutoff. This is the generator's
// input signal.
func (r *labResultRepository) ListAbnormalIndicators(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	since time.Time,
) ([]*LabIndicator, error) {
	log := r.log.Function("ListAbnormalIndicators")

	if tx == nil {
		tx = r.db.SQLWithContext(ctx)
	}

	var indicators []*LabIndicator
	err := tx.
		Joins("JOIN lab_results ON lab_results.id = lab_indicators.lab_result_id").
		Where("lab_results.user_id = ?", userID).
		Where("lab_results.collected_at >= ?", since).
		Where("lab_results.deleted_at IS NULL").
		Where("lab_indicators.status IN ?", []IndicatorStatus{IndicatorStatusLow, IndicatorStatusHigh}).
		Order("lab_results.collected_at DESC").
		Find(&indicators).Error
	if err != nil {
		return nil, log.Err("failed to list abnormal indicators", err, "userID", userID)
	}

	return indicators, nil
}

// ListUserIDsWithResultsSince feeds the scheduled regeneration sweep.
func (r *labResultRepository) ListUserIDsWithResultsSince(
	ctx context.Context,
	since time.Time,
) ([]uuid.UUID, error) {
	log := r.log.Function("ListUserIDsWithResultsSince")

	var userIDs []uuid.UUID
	err := r.db.SQLWithContext(ctx).
		Model(&LabResult{}).
		Distinct("user_id").
		Where("collected_at >= ?", since).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, log.Err("failed to list users with recent lab results", err)
	}

	return userIDs, nil
}
