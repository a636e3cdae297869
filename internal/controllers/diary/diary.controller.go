package diaryController

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"carelink/internal/repositories"
	"carelink/internal/services"
	"context"
	"errors"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxBodyLength = 20000

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("diary entry not found")
)

// DiaryController handles diary entries for a patient, either the
// caller themselves or a patient who delegated the diary capability.
// Every operation resolves its target through the access service
// before touching rows.
type DiaryController struct {
	diaryRepo     repositories.DiaryRepository
	accessService *services.AccessService
	db            database.DB
	log           logger.Logger
}

type CreateEntryRequest struct {
	PatientID uuid.UUID `json:"patientId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	Mood      *int      `json:"mood,omitempty"`
	EntryDate string    `json:"entryDate"`
}

type DiaryControllerInterface interface {
	CreateEntry(ctx context.Context, caller *User, request *CreateEntryRequest) (*DiaryEntry, error)
	GetEntry(ctx context.Context, caller *User, patientID, entryID uuid.UUID) (*DiaryEntry, error)
	ListEntries(ctx context.Context, caller *User, patientID uuid.UUID) ([]*DiaryEntry, error)
	DeleteEntry(ctx context.Context, caller *User, patientID, entryID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) DiaryControllerInterface {
	return &DiaryController{
		diaryRepo:     repos.Diary,
		accessService: services.Access,
		db:            db,
		log:           logger.New("diaryController"),
	}
}

func (c *DiaryController) CreateEntry(
	ctx context.Context,
	caller *User,
	request *CreateEntryRequest,
) (*DiaryEntry, error) {
	log := c.log.Function("CreateEntry")

	patientID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, request.PatientID, CapabilityDiaryWrite,
	)
	if err != nil {
		return nil, err
	}

	if request.Body == "" {
		return nil, log.ErrorWithType(ErrValidation, "body is required")
	}

	if len(request.Body) > MaxBodyLength {
		return nil, log.ErrorWithType(
			ErrValidation,
			"body exceeds maximum length",
			"length", len(request.Body),
			"max", MaxBodyLength,
		)
	}

	if request.Mood != nil && (*request.Mood < 1 || *request.Mood > 10) {
		return nil, log.ErrorWithType(ErrValidation, "mood must be between 1 and 10")
	}

	entryDate, err := parseEntryDate(request.EntryDate)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid entryDate", "error", err)
	}

	entry := &DiaryEntry{
		UserID:    patientID,
		Title:     request.Title,
		Body:      request.Body,
		Mood:      request.Mood,
		EntryDate: entryDate,
	}

	if err := c.diaryRepo.Create(ctx, entry); err != nil {
		return nil, log.Err("failed to create diary entry", err, "patientID", patientID)
	}

	log.Info(
		"diary entry created",
		"entryID", entry.ID,
		"patientID", patientID,
		"callerID", caller.ID,
	)

	return entry, nil
}

func (c *DiaryController) GetEntry(
	ctx context.Context,
	caller *User,
	patientID, entryID uuid.UUID,
) (*DiaryEntry, error) {
	log := c.log.Function("GetEntry")

	resolvedID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, patientID, CapabilityDiaryRead,
	)
	if err != nil {
		return nil, err
	}

	entry, err := c.diaryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "diary entry not found", "entryID", entryID)
		}
		return nil, log.Err("failed to get diary entry", err, "entryID", entryID)
	}

	if entry.UserID != resolvedID {
		return nil, log.ErrorWithType(
			ErrNotFound,
			"diary entry does not belong to patient",
			"entryID", entryID,
			"patientID", resolvedID,
		)
	}

	return entry, nil
}

func (c *DiaryController) ListEntries(
	ctx context.Context,
	caller *User,
	patientID uuid.UUID,
) ([]*DiaryEntry, error) {
	resolvedID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, patientID, CapabilityDiaryRead,
	)
	if err != nil {
		return nil, err
	}

	return c.diaryRepo.ListByUser(ctx, resolvedID)
}

func (c *DiaryController) DeleteEntry(
	ctx context.Context,
	caller *User,
	patientID, entryID uuid.UUID,
) error {
	log := c.log.Function("DeleteEntry")

	if _, err := c.GetEntry(ctx, caller, patientID, entryID); err != nil {
		return err
	}

	// Delete is a write even though the lookup above only needed read.
	if _, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, patientID, CapabilityDiaryWrite,
	); err != nil {
		return err
	}

	if err := c.diaryRepo.Delete(ctx, entryID); err != nil {
		return log.Err("failed to delete diary entry", err, "entryID", entryID)
	}

	log.Info("diary entry deleted", "entryID", entryID, "callerID", caller.ID)
	return nil
}

func parseEntryDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("entryDate is required")
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.New("invalid entryDate format, expected YYYY-MM-DD")
	}

	return t, nil
}
