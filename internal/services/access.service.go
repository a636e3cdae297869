package services

import (
	"carelink/internal/repositories"
	"context"
	"errors"

	. "carelink/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNoDelegation means no care relationship exists from the caller
	// to the requested patient.
	ErrNoDelegation = errors.New("no delegation")

	// ErrCapabilityNotGranted means a relationship exists but its
	// bundle does not include the requested capability.
	ErrCapabilityNotGranted = errors.New("capability not granted")
)

// AccessService is the single authorization checkpoint for
// patient-data-scoped operations. Every diary, medication and reminder
// code path resolves its target patient through ResolvePatientID
// before reading or writing anything.
type AccessService struct {
	careRelationshipRepo repositories.CareRelationshipRepository
	log                  logger.Logger
}

func NewAccessService(repos repositories.Repository) *AccessService {
	return &AccessService{
		careRelationshipRepo: repos.CareRelationship,
		log:                  logger.New("accessService"),
	}
}

// ResolvePatientID decides whose data the caller may act on.
//
// Self-access always succeeds for any capability: an empty requested
// id, or one equal to the caller, resolves to the caller without
// touching the delegation graph. Anything else requires a care
// relationship from caller to target whose bundle grants the
// capability; a missing relationship or an ungranted capability both
// deny, never default to allow.
func (s *AccessService) ResolvePatientID(
	ctx context.Context,
	callerID uuid.UUID,
	requestedPatientID uuid.UUID,
	capability Capability,
) (uuid.UUID, error) {
	log := s.log.Function("ResolvePatientID")

	if requestedPatientID == uuid.Nil || requestedPatientID == callerID {
		return callerID, nil
	}

	relationship, err := s.careRelationshipRepo.GetByPair(ctx, callerID, requestedPatientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info(
				"delegated access denied, no relationship",
				"callerID", callerID,
				"patientID", requestedPatientID,
				"capability", capability,
			)
			return uuid.Nil, ErrNoDelegation
		}
		return uuid.Nil, log.Err(
			"failed to look up care relationship",
			err,
			"callerID", callerID,
			"patientID", requestedPatientID,
		)
	}

	if !relationship.Permissions.Grants(capability) {
		log.Info(
			"delegated access denied, capability not granted",
			"callerID", callerID,
			"patientID", requestedPatientID,
			"capability", capability,
		)
		return uuid.Nil, ErrCapabilityNotGranted
	}

	return requestedPatientID, nil
}
