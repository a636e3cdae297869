package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, medication *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Medication, error)
	Update(ctx context.Context, medication *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type medicationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewMedicationRepository(db database.DB) MedicationRepository {
	return &medicationRepository{
		db:  db,
		log: logger.New("medicationRepository"),
	}
}

func (r *medicationRepository) Create(ctx context.Context, medication *Medication) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(medication).Error; err != nil {
		return log.Err("failed to create medication", err, "userID", medication.UserID)
	}

	return nil
}

func (r *medicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	var medication Medication
	if err := r.db.SQLWithContext(ctx).First(&medication, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &medication, nil
}

func (r *medicationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*Medication, error) {
	log := r.log.Function("ListByUser")

	var medications []*Medication
	err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&medications).Error
	if err != nil {
		return nil, log.Err("failed to list medications", err, "userID", userID)
	}

	return medications, nil
}

func (r *medicationRepository) Update(ctx context.Context, medication *Medication) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(medication).Error; err != nil {
		return log.Err("failed to update medication", err, "medicationID", medication.ID)
	}

	return nil
}

func (r *medicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Medication{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete medication", err, "medicationID", id)
	}

	return nil
}
