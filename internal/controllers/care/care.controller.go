package careController

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"carelink/internal/repositories"
	"carelink/internal/services"
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("care relationship not found")
)

// CareController manages the delegation graph. Only the patient side
// of a relationship may create, change or revoke it; caretakers get a
// read-only view of what has been granted to them.
type CareController struct {
	careRelationshipRepo repositories.CareRelationshipRepository
	userRepo             repositories.UserRepository
	db                   database.DB
	log                  logger.Logger
}

type GrantRequest struct {
	CaretakerID uuid.UUID        `json:"caretakerId"`
	Permissions CapabilityBundle `json:"permissions"`
}

type UpdateGrantRequest struct {
	Permissions CapabilityBundle `json:"permissions"`
}

type CareControllerInterface interface {
	Grant(ctx context.Context, patient *User, request *GrantRequest) (*CareRelationship, error)
	UpdateGrant(
		ctx context.Context,
		patient *User,
		relationshipID uuid.UUID,
		request *UpdateGrantRequest,
	) (*CareRelationship, error)
	Revoke(ctx context.Context, caller *User, relationshipID uuid.UUID) error
	ListAsPatient(ctx context.Context, patient *User) ([]*CareRelationship, error)
	ListAsCaretaker(ctx context.Context, caretaker *User) ([]*CareRelationship, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) CareControllerInterface {
	return &CareController{
		careRelationshipRepo: repos.CareRelationship,
		userRepo:             repos.User,
		db:                   db,
		log:                  logger.New("careController"),
	}
}

// Grant creates or replaces the grant from the calling patient to a
// caretaker. Granting twice to the same caretaker overwrites the
// bundle rather than erroring; revoke-then-regrant and regrant are
// the same operation.
func (c *CareController) Grant(
	ctx context.Context,
	patient *User,
	request *GrantRequest,
) (*CareRelationship, error) {
	log := c.log.Function("Grant")

	if request.CaretakerID == uuid.Nil {
		return nil, log.ErrorWithType(ErrValidation, "caretakerId is required")
	}

	if request.CaretakerID == patient.ID {
		return nil, log.ErrorWithType(
			ErrValidation,
			"cannot grant caretaker access to yourself",
			"userID", patient.ID,
		)
	}

	if _, err := c.userRepo.GetByID(ctx, request.CaretakerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(
				ErrValidation,
				"caretaker does not exist",
				"caretakerID", request.CaretakerID,
			)
		}
		return nil, log.Err("failed to look up caretaker", err, "caretakerID", request.CaretakerID)
	}

	relationship := &CareRelationship{
		CaretakerID: request.CaretakerID,
		PatientID:   patient.ID,
		Permissions: request.Permissions,
	}

	if err := c.careRelationshipRepo.Upsert(ctx, relationship); err != nil {
		return nil, log.Err(
			"failed to upsert care relationship",
			err,
			"patientID", patient.ID,
			"caretakerID", request.CaretakerID,
		)
	}

	log.Info(
		"care grant saved",
		"patientID", patient.ID,
		"caretakerID", request.CaretakerID,
	)

	return relationship, nil
}

// UpdateGrant replaces the capability bundle of an existing grant.
// Clearing every flag is allowed; the relationship then grants
// nothing but still exists until revoked.
func (c *CareController) UpdateGrant(
	ctx context.Context,
	patient *User,
	relationshipID uuid.UUID,
	request *UpdateGrantRequest,
) (*CareRelationship, error) {
	log := c.log.Function("UpdateGrant")

	relationship, err := c.getOwnedRelationship(ctx, patient, relationshipID, log)
	if err != nil {
		return nil, err
	}

	updated, err := c.careRelationshipRepo.UpdatePermissions(
		ctx,
		relationship.ID,
		request.Permissions,
	)
	if err != nil {
		return nil, log.Err(
			"failed to update permissions",
			err,
			"relationshipID", relationshipID,
		)
	}

	log.Info(
		"care grant updated",
		"patientID", patient.ID,
		"relationshipID", relationshipID,
	)

	return updated, nil
}

// Revoke soft-deletes the grant. Either side may revoke: the patient
// withdraws the delegation, or the caretaker declines it. Revocation
// takes effect on the next access resolution; there is no grace
// period.
func (c *CareController) Revoke(
	ctx context.Context,
	caller *User,
	relationshipID uuid.UUID,
) error {
	log := c.log.Function("Revoke")

	relationship, err := c.careRelationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(
				ErrNotFound,
				"care relationship not found",
				"relationshipID", relationshipID,
			)
		}
		return log.Err("failed to get care relationship", err, "relationshipID", relationshipID)
	}

	if relationship.PatientID != caller.ID && relationship.CaretakerID != caller.ID {
		return log.ErrorWithType(
			ErrNotFound,
			"care relationship does not involve user",
			"relationshipID", relationshipID,
			"userID", caller.ID,
		)
	}

	if err := c.careRelationshipRepo.Delete(ctx, relationship); err != nil {
		return log.Err("failed to revoke care relationship", err, "relationshipID", relationshipID)
	}

	log.Info(
		"care grant revoked",
		"patientID", relationship.PatientID,
		"caretakerID", relationship.CaretakerID,
		"revokedBy", caller.ID,
	)

	return nil
}

func (c *CareController) ListAsPatient(
	ctx context.Context,
	patient *User,
) ([]*CareRelationship, error) {
	return c.careRelationshipRepo.ListByPatient(ctx, patient.ID)
}

func (c *CareController) ListAsCaretaker(
	ctx context.Context,
	caretaker *User,
) ([]*CareRelationship, error) {
	return c.careRelationshipRepo.ListByCaretaker(ctx, caretaker.ID)
}

// getOwnedRelationship loads the relationship and verifies the caller
// is its patient. A grant owned by someone else reads as not-found.
func (c *CareController) getOwnedRelationship(
	ctx context.Context,
	patient *User,
	relationshipID uuid.UUID,
	log logger.Logger,
) (*CareRelationship, error) {
	relationship, err := c.careRelationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(
				ErrNotFound,
				"care relationship not found",
				"relationshipID", relationshipID,
			)
		}
		return nil, log.Err("failed to get care relationship", err, "relationshipID", relationshipID)
	}

	if relationship.PatientID != patient.ID {
		return nil, log.ErrorWithType(
			ErrNotFound,
			"care relationship does not belong to user",
			"relationshipID", relationshipID,
			"userID", patient.ID,
		)
	}

	return relationship, nil
}
