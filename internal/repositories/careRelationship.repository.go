package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

const (
	CARE_RELATIONSHIP_CACHE_PREFIX = "care"
	CARE_RELATIONSHIP_CACHE_EXPIRY = 15 * time.Minute
)

type CareRelationshipRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CareRelationship, error)
	GetByPair(ctx context.Context, caretakerID, patientID uuid.UUID) (*CareRelationship, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CareRelationship, error)
	ListByCaretaker(ctx context.Context, caretakerID uuid.UUID) ([]*CareRelationship, error)
	Upsert(ctx context.Context, relationship *CareRelationship) error
	UpdatePermissions(ctx context.Context, id uuid.UUID, permissions CapabilityBundle) (*CareRelationship, error)
	Delete(ctx context.Context, relationship *CareRelationship) error
}

type careRelationshipRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCareRelationshipRepository(db database.DB) CareRelationshipRepository {
	return &careRelationshipRepository{
		db:  db,
		log: logger.New("careRelationshipRepository"),
	}
}

func (r *careRelationshipRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*CareRelationship, error) {
	var relationship CareRelationship
	if err := r.db.SQLWithContext(ctx).First(&relationship, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &relationship, nil
}

// GetByPair looks up the delegation grant for an ordered
// (caretaker, patient) pair. This is the read on the hot path of every
// delegated request, so hits are served from cache.
func (r *careRelationshipRepository) GetByPair(
	ctx context.Context,
	caretakerID, patientID uuid.UUID,
) (*CareRelationship, error) {
	log := r.log.Function("GetByPair")

	cacheKey := pairCacheKey(caretakerID, patientID)
	var cached CareRelationship
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get relationship from cache", "key", cacheKey, "error", err)
	}
	if found {
		return &cached, nil
	}

	var relationship CareRelationship
	err = r.db.SQLWithContext(ctx).
		First(&relationship, "caretaker_id = ? AND patient_id = ?", caretakerID, patientID).
		Error
	if err != nil {
		return nil, err
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(&relationship).
		WithTTL(CARE_RELATIONSHIP_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache relationship", "key", cacheKey, "error", err)
	}

	return &relationship, nil
}

func (r *careRelationshipRepository) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
) ([]*CareRelationship, error) {
	log := r.log.Function("ListByPatient")

	var relationships []*CareRelationship
	err := r.db.SQLWithContext(ctx).
		Preload("Caretaker").
		Where("patient_id = ?", patientID).
		Order("created_at").
		Find(&relationships).Error
	if err != nil {
		return nil, log.Err("failed to list relationships by patient", err, "patientID", patientID)
	}

	return relationships, nil
}

func (r *careRelationshipRepository) ListByCaretaker(
	ctx context.Context,
	caretakerID uuid.UUID,
) ([]*CareRelationship, error) {
	log := r.log.Function("ListByCaretaker")

	var relationships []*CareRelationship
	err := r.db.SQLWithContext(ctx).
		Preload("Patient").
		Where("caretaker_id = ?", caretakerID).
		Order("created_at").
		Find(&relationships).Error
	if err != nil {
		return nil, log.Err("failed to list relationships by caretaker", err, "caretakerID", caretakerID)
	}

	return relationships, nil
}

// Upsert creates the grant, or refreshes the permission bundle when a
// row for the (caretaker, patient) pair already exists. The composite
// unique index keeps the pair singular under concurrent grants.
func (r *careRelationshipRepository) Upsert(
	ctx context.Context,
	relationship *CareRelationship,
) error {
	log := r.log.Function("Upsert")

	err := r.db.SQLWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "caretaker_id"}, {Name: "patient_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "deleted_at IS NULL"}}},
			DoUpdates: clause.AssignmentColumns([]string{
				"diary_read", "diary_write",
				"medications_read", "medications_write",
				"reminders_read", "reminders_write",
				"updated_at",
			}),
		}).
		Create(relationship).Error
	if err != nil {
		return log.Err(
			"failed to upsert care relationship",
			err,
			"caretakerID", relationship.CaretakerID,
			"patientID", relationship.PatientID,
		)
	}

	r.clearPairCache(ctx, relationship.CaretakerID, relationship.PatientID)

	return nil
}

func (r *careRelationshipRepository) UpdatePermissions(
	ctx context.Context,
	id uuid.UUID,
	permissions CapabilityBundle,
) (*CareRelationship, error) {
	log := r.log.Function("UpdatePermissions")

	relationship, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	relationship.Permissions = permissions
	if err := r.db.SQLWithContext(ctx).Save(relationship).Error; err != nil {
		return nil, log.Err("failed to update permissions", err, "relationshipID", id)
	}

	r.clearPairCache(ctx, relationship.CaretakerID, relationship.PatientID)

	return relationship, nil
}

func (r *careRelationshipRepository) Delete(
	ctx context.Context,
	relationship *CareRelationship,
) error {
	log := r.log.Function("Delete")

	err := r.db.SQLWithContext(ctx).
		Delete(&CareRelationship{}, "id = ?", relationship.ID).Error
	if err != nil {
		return log.Err("failed to delete care relationship", err, "relationshipID", relationship.ID)
	}

	r.clearPairCache(ctx, relationship.CaretakerID, relationship.PatientID)

	return nil
}

func (r *careRelationshipRepository) clearPairCache(
	ctx context.Context,
	caretakerID, patientID uuid.UUID,
) {
	cacheKey := pairCacheKey(caretakerID, patientID)
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithContext(ctx).
		Delete(); err != nil {
		r.log.Warn("failed to clear relationship cache", "key", cacheKey, "error", err)
	}
}

func pairCacheKey(caretakerID, patientID uuid.UUID) string {
	return CARE_RELATIONSHIP_CACHE_PREFIX + ":" + caretakerID.String() + ":" + patientID.String()
}
