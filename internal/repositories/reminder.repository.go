package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Reminder, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reminderRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReminderRepository(db database.DB) ReminderRepository {
	return &reminderRepository{
		db:  db,
		log: logger.New("reminderRepository"),
	}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *Reminder) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(reminder).Error; err != nil {
		return log.Err("failed to create reminder", err, "userID", reminder.UserID)
	}

	return nil
}

func (r *reminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	var reminder Reminder
	if err := r.db.SQLWithContext(ctx).First(&reminder, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &reminder, nil
}

func (r *reminderRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*Reminder, error) {
	log := r.log.Function("ListByUser")

	var reminders []*Reminder
	err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("remind_at").
		Find(&reminders).Error
	if err != nil {
		return nil, log.Err("failed to list reminders", err, "userID", userID)
	}

	return reminders, nil
}

func (r *reminderRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("MarkCompleted")

	err := r.db.SQLWithContext(ctx).
		Model(&Reminder{}).
		Where("id = ?", id).
		Update("completed_at", time.Now()).Error
	if err != nil {
		return log.Err("failed to mark reminder completed", err, "reminderID", id)
	}

	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Reminder{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete reminder", err, "reminderID", id)
	}

	return nil
}
