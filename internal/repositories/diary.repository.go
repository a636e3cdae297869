package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type DiaryRepository interface {
	Create(ctx context.Context, entry *DiaryEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*DiaryEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*DiaryEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type diaryRepository struct {
	db  database.DB
	log logger.Logger
}

func NewDiaryRepository(db database.DB) DiaryRepository {
	return &diaryRepository{
		db:  db,
		log: logger.New("diaryRepository"),
	}
}

func (r *diaryRepository) Create(ctx context.Context, entry *DiaryEntry) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to create diary entry", err, "userID", entry.UserID)
	}

	return nil
}

func (r *diaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*DiaryEntry, error) {
	var entry DiaryEntry
	if err := r.db.SQLWithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *diaryRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*DiaryEntry, error) {
	log := r.log.Function("ListByUser")

	var entries []*DiaryEntry
	err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, log.Err("failed to list diary entries", err, "userID", userID)
	}

	return entries, nil
}

func (r *diaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&DiaryEntry{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete diary entry", err, "entryID", id)
	}

	return nil
}
