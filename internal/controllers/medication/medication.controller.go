package medicationController

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
	ErrNotFound   = errors.New("medication not found")
)

// MedicationController manages a patient's medication list. Access is
// delegation-eligible through the medications capability.
type MedicationController struct {
	medicationRepo repositories.MedicationRepository
	accessService  *services.AccessService
	db             database.DB
	log            logger.Logger
}

type CreateMedicationRequest struct {
	PatientID uuid.UUID `json:"patientId,omitempty"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage,omitempty"`
	Frequency string    `json:"frequency,omitempty"`
	StartedAt *string   `json:"startedAt,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type UpdateMedicationRequest struct {
	Name      *string `json:"name,omitempty"`
	Dosage    *string `json:"dosage,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
	EndedAt   *string `json:"endedAt,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type MedicationControllerInterface interface {
	Create(ctx context.Context, caller *User, request *CreateMedicationRequest) (*Medication, error)
	List(ctx context.Context, caller *User, patientID uuid.UUID) ([]*Medication, error)
	Update(
		ctx context.Context,
		caller *User,
		patientID, medicationID uuid.UUID,
		request *UpdateMedicationRequest,
	) (*Medication, error)
	Delete(ctx context.Context, caller *User, patientID, medicationID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) MedicationControllerInterface {
	return &MedicationController{
		medicationRepo: repos.Medication,
		accessService:  services.Access,
		db:             db,
		log:            logger.New("medicationController"),
	}
}

func (c *MedicationController) Create(
	ctx context.Context,
	caller *User,
	request *CreateMedicationRequest,
) (*Medication, error) {
	log := c.log.Function("Create")

	patientID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, request.PatientID, CapabilityMedicationsWrite,
	)
	if err != nil {
		return nil, err
	}

	if request.Name == "" {
		return nil, log.ErrorWithType(ErrValidation, "name is required")
	}

	startedAt, err := parseOptionalDate(request.StartedAt)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid startedAt", "error", err)
	}

	medication := &Medication{
		UserID:    patientID,
		Name:      request.Name,
		Dosage:    request.Dosage,
		Frequency: request.Frequency,
		StartedAt: startedAt,
		Notes:     request.Notes,
	}

	if err := c.medicationRepo.Create(ctx, medication); err != nil {
		return nil, log.Err("failed to create medication", err, "patientID", patientID)
	}

	log.Info(
		"medication created",
		"medicationID", medication.ID,
		"patientID", patientID,
		"callerID", caller.ID,
	)

	return medication, nil
}

func (c *MedicationController) List(
	ctx context.Context,
	caller *User,
	patientID uuid.UUID,
) ([]*Medication, error) {
	resolvedID, err := c.accessService.ResolvePatientID(
		ctx, caller.ID, patientID, CapabilityMedicationsRead,
	)
	if err != nil {
		return nil, err
	}

	return c.medicationRepo.ListByUser(ctx, resolvedID)
}

func (c *MedicationController) Update(
	ctx context.Context,
	caller *User,
	patientID, medicationID uuid.UUID,
	request *UpdateMedicationRequest,
) (*Medication, error) {
	log := c.log.Function("Update")

	medication, err := c.getPatientMedication(
		ctx, caller, patientID, medicationID, CapabilityMedicationsWrite, log,
	)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		if *request.Name == "" {
			return nil, log.ErrorWithType(ErrValidation, "name cannot be empty")
		}
		medication.Name = *request.Name
	}
	if request.Dosage != nil {
		medication.Dosage = *request.Dosage
	}
	if request.Frequency != nil {
		medication.Frequency = *request.Frequency
	}
	if request.Notes != nil {
		medication.Notes = *request.Notes
	}
	if request.EndedAt != nil {
		endedAt, err := parseOptionalDate(request.EndedAt)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid endedAt", "error", err)
		}
		medication.EndedAt = endedAt
	}

	if err := c.medicationRepo.Update(ctx, medication); err != nil {
		return nil, log.Err("failed to update medication", err, "medicationID", medicationID)
	}

	log.Info("medication updated", "medicationID", medicationID, "callerID", caller.ID)
	return medication, nil
}

func (c *MedicationController) Delete(
	ctx context.Context,
	caller *User,
	patientID, medicationID uuid.UUID,
) error {
	log := c.log.Function("Delete")

	if _, err := c.getPatientMedication(
		ctx, caller, patientID, medicationID, CapabilityMedicationsWrite, log,
	); err != nil {
		return err
	}

	if err := c.medicationRepo.Delete(ctx, medicationID); err != nil {
		return log.Err("failed to delete medication", err, "medicationID", medicationID)
	}

	log.Info("medication deleted", "medicationID", medicationID, "callerID", caller.ID)
	return nil
}

func (c *MedicationController) getPatientMedication(
	ctx context.Context,
	caller *User,
	patientID, medicationID uuid.UUID,
	capability Capability,
	log logger.Logger,
) (*Medication, error) {
	resolvedID, err := c.accessService.ResolvePatientID(ctx, caller.ID, patientID, capability)
	if err != nil {
		return nil, err
	}

	medication, err := c.medicationRepo.GetByID(ctx, medicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "medication not found", "medicationID", medicationID)
		}
		return nil, log.Err("failed to get medication", err, "medicationID", medicationID)
	}

	if medication.UserID != resolvedID {
		return nil, log.ErrorWithType(
			ErrNotFound,
			"medication does not belong to patient",
			"medicationID", medicationID,
			"patientID", resolvedID,
		)
	}

	return medication, nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, errors.New("invalid date format, expected YYYY-MM-DD")
	}

	return &t, nil
}
