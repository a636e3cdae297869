package reminderController

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

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("reminder not found")
)

var knownRecurrences = map[string]bool{
	"":        true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
}

// ReminderController manages patient reminders. Delegation-eligible
// through the reminders capability; delivery is out of scope here.
type ReminderController struct {
	reminderRepo  repositories.ReminderRepository
	accessService *services.AccessService
	db            database.DB
	log           logger.Logger
}

type CreateReminderRequest struct {
	PatientID   uuid.UUID `json:"patientId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	RemindAt    string    `json:"remindAt"`
	Recurrence  string    `json:"recurrence,omitempty"`
}

type ReminderControllerInterface interface {
	Create(ctx context.Context, caller *User, request *CreateReminderRequest) (*Reminder, error)
	List(ctx context.Context, caller *User, patientID uuid.UUID) ([]*Reminder, error)
	Complete(ctx context.Context, caller *User, patientID, reminderID uuid.UUID) error
	Delete(ctx context.Context, caller *User, patientID, reminderID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) ReminderControllerInterface {
	return &ReminderController{
		reminderRepo:  repos.Reminder,
		accessService: services.Access,
		db:            db,
		log:           logger.New("reminderController"),
	}
}

func (c *ReminderController) Create(
	ctx context.Context,
	caller *User,
	request *CreateReminderRequest,
) (*Reminder, error) {
	log := c.log.Function("Create")

	patientID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, request.PatientID, CapabilityRemindersWrite,
	)
	if err != nil {
		return nil, err
	}

	if request.Title == "" {
		return nil, log.ErrorWithType(ErrValidation, "title is required")
	}

	if !knownRecurrences[request.Recurrence] {
		return nil, log.ErrorWithType(
			ErrValidation,
			"unknown recurrence",
			"recurrence", request.Recurrence,
		)
	}

	remindAt, err := parseRemindAt(request.RemindAt)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid remindAt", "error", err)
	}

	reminder := &Reminder{
		UserID:      patientID,
		Title:       request.Title,
		Description: request.Description,
		RemindAt:    remindAt,
		Recurrence:  request.Recurrence,
	}

	if err := c.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, log.Err("failed to create reminder", err, "patientID", patientID)
	}

	log.Info(
		"reminder created",
		"reminderID", reminder.ID,
		"patientID", patientID,
		"callerID", caller.ID,
	)

	return reminder, nil
}

func (c *ReminderController) List(
	ctx context.Context,
	caller *User,
	patientID uuid.UUID,
) ([]*Reminder, error) {
	resolvedID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, patientID, CapabilityRemindersRead,
	)
	if err != nil {
		return nil, err
	}

	return c.reminderRepo.ListByUser(ctx, resolvedID)
}

// Complete marks the reminder done. Completing an already completed
// reminder is a no-op rather than an error.
func (c *ReminderController) Complete(
	ctx context.Context,
	caller *User,
	patientID, reminderID uuid.UUID,
) error {
	log := c.log.Function("Complete")

	if _, err := c.getPatientReminder(ctx, caller, patientID, reminderID, log); err != nil {
		return err
	}

	if err := c.reminderRepo.MarkCompleted(ctx, reminderID); err != nil {
		return log.Err("failed to complete reminder", err, "reminderID", reminderID)
	}

	log.Info("reminder completed", "reminderID", reminderID, "callerID", caller.ID)
	return nil
}

func (c *ReminderController) Delete(
	ctx context.Context,
	caller *User,
	patientID, reminderID uuid.UUID,
) error {
	log := c.log.Function("Delete")

	if _, err := c.getPatientReminder(ctx, caller, patientID, reminderID, log); err != nil {
		return err
	}

	if err := c.reminderRepo.Delete(ctx, reminderID); err != nil {
		return log.Err("failed to delete reminder", err, "reminderID", reminderID)
	}

	log.Info("reminder deleted", "reminderID", reminderID, "callerID", caller.ID)
	return nil
}

func (c *ReminderController) getPatientReminder(
	ctx context.Context,
	caller *User,
	patientID, reminderID uuid.UUID,
	log logger.Logger,
) (*Reminder, error) {
	resolvedID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, patientID, CapabilityRemindersWrite,
	)
	if err != nil {
		return nil, err
	}

	reminder, err := c.reminderRepo.GetByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "reminder not found", "reminderID", reminderID)
		}
		return nil, log.Err("failed to get reminder", err, "reminderID", reminderID)
	}

	if reminder.UserID != resolvedID {
		return nil, log.ErrorWithType(
			ErrNotFound,
			"reminder does not belong to patient",
			"reminderID", reminderID,
			"patientID", resolvedID,
		)
	}

	return reminder, nil
}

func parseRemindAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("remindAt is required")
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("invalid remindAt format, expected RFC3339")
	}

	return t, nil
}
