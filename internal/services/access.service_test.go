package services

import (
	"carelink/internal/repositories"
	"context"
	"testing"

	. "carelink/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCareRelationshipRepo struct {
	repositories.CareRelationshipRepository

	relationship *CareRelationship
	err          error
	lookups      int
}

func (s *stubCareRelationshipRepo) GetByPair(
	ctx context.Context,
	caretakerID, patientID uuid.UUID,
) (*CareRelationship, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	return s.relationship, nil
}

func newAccessService(repo repositories.CareRelationshipRepository) *AccessService {
	return NewAccessService(repositories.Repository{CareRelationship: repo})
}

func TestResolvePatientID_SelfAccessBypassesDelegation(t *testing.T) {
	repo := &stubCareRelationshipRepo{err: gorm.ErrRecordNotFound}
	service := newAccessService(repo)
	caller := uuid.New()

	capabilities := []Capability{
		CapabilityDiaryRead, CapabilityDiaryWrite,
		CapabilityMedicationsRead, CapabilityMedicationsWrite,
		CapabilityRemindersRead, CapabilityRemindersWrite,
	}

	for _, capability := range capabilities {
		t.Run(string(capability), func(t *testing.T) {
			resolved, err := service.ResolvePatientID(context.Background(), caller, caller, capability)
			require.NoError(t, err)
			assert.Equal(t, caller, resolved)
		})
	}

	t.Run("empty requested id resolves to caller", func(t *testing.T) {
		resolved, err := service.ResolvePatientID(
			context.Background(), caller, uuid.Nil, CapabilityDiaryWrite,
		)
		require.NoError(t, err)
		assert.Equal(t, caller, resolved)
	})

	// Self-access must never consult the delegation graph.
	assert.Zero(t, repo.lookups)
}

func TestResolvePatientID_NoDelegation(t *testing.T) {
	repo := &stubCareRelationshipRepo{err: gorm.ErrRecordNotFound}
	service := newAccessService(repo)

	_, err := service.ResolvePatientID(
		context.Background(), uuid.New(), uuid.New(), CapabilityDiaryRead,
	)
	assert.ErrorIs(t, err, ErrNoDelegation)
	assert.Equal(t, 1, repo.lookups)
}

func TestResolvePatientID_CapabilityChecks(t *testing.T) {
	caretaker := uuid.New()
	patient := uuid.New()

	relationship := &CareRelationship{
		CaretakerID: caretaker,
		PatientID:   patient,
		Permissions: CapabilityBundle{
			Diary: DomainPermissions{Read: true, Write: false},
		},
	}
	service := newAccessService(&stubCareRelationshipRepo{relationship: relationship})

	t.Run("granted capability resolves to patient", func(t *testing.T) {
		resolved, err := service.ResolvePatientID(
			context.Background(), caretaker, patient, CapabilityDiaryRead,
		)
		require.NoError(t, err)
		assert.Equal(t, patient, resolved)
	})

	t.Run("ungranted write flag on same domain is forbidden", func(t *testing.T) {
		_, err := service.ResolvePatientID(
			context.Background(), caretaker, patient, CapabilityDiaryWrite,
		)
		assert.ErrorIs(t, err, ErrCapabilityNotGranted)
	})

	t.Run("absent domain is forbidden", func(t *testing.T) {
		_, err := service.ResolvePatientID(
			context.Background(), caretaker, patient, CapabilityMedicationsRead,
		)
		assert.ErrorIs(t, err, ErrCapabilityNotGranted)
	})
}

func TestResolvePatientID_EmptyBundleDeniesEverything(t *testing.T) {
	caretaker := uuid.New()
	patient := uuid.New()
	service := newAccessService(&stubCareRelationshipRepo{
		relationship: &CareRelationship{CaretakerID: caretaker, PatientID: patient},
	})

	capabilities := []Capability{
		CapabilityDiaryRead, CapabilityDiaryWrite,
		CapabilityMedicationsRead, CapabilityMedicationsWrite,
		CapabilityRemindersRead, CapabilityRemindersWrite,
	}

	for _, capability := range capabilities {
		_, err := service.ResolvePatientID(context.Background(), caretaker, patient, capability)
		assert.ErrorIs(t, err, ErrCapabilityNotGranted, "capability %s", capability)
	}
}
