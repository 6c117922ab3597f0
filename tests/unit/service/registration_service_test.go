package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"luxbyte/internal/domain"
	"luxbyte/internal/manifest"
	"luxbyte/internal/service"
	"luxbyte/mocks"
)

type regServiceFixture struct {
	regRepo  *mocks.MockRegistrationRepo
	slotRepo *mocks.MockSlotRepo
	userRepo *mocks.MockUserRepo
	email    *mocks.MockEmailSender
	svc      service.RegistrationService
}

func newRegServiceFixture() *regServiceFixture {
	f := &regServiceFixture{
		regRepo:  new(mocks.MockRegistrationRepo),
		slotRepo: new(mocks.MockSlotRepo),
		userRepo: new(mocks.MockUserRepo),
		email:    new(mocks.MockEmailSender),
	}
	registry := manifest.NewRegistry()
	checklist := service.NewChecklistService(f.regRepo, f.slotRepo, registry)
	f.svc = service.NewRegistrationService(f.regRepo, f.slotRepo, f.userRepo, registry, checklist, f.email)
	return f
}

func pharmacySlots(regID uuid.UUID, status domain.SlotStatus) []domain.UploadSlot {
	registry := manifest.NewRegistry()
	m, _ := registry.GetManifest(domain.ActivityPharmacy)
	var slots []domain.UploadSlot
	for _, req := range m.All() {
		s := domain.UploadSlot{
			ID:             uuid.New(),
			RegistrationID: regID,
			RequirementID:  req.ID,
			Mandatory:      req.Mandatory,
			Status:         domain.SlotStatusEmpty,
		}
		if req.Mandatory {
			s.Status = status
		}
		slots = append(slots, s)
	}
	return slots
}

func TestRegistrationService_Create(t *testing.T) {
	f := newRegServiceFixture()
	userID := uuid.New()

	f.regRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Registration")).Return(nil)
	f.slotRepo.On("Ensure", mock.Anything, mock.AnythingOfType("[]domain.UploadSlot")).Return(nil)

	reg, err := f.svc.Create(context.Background(), userID, service.CreateRegistrationInput{
		Activity:     domain.ActivityPharmacy,
		BusinessName: "Good Health Pharmacy",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusDraft, reg.Status)
	assert.Equal(t, userID, reg.UserID)

	// One slot per manifest requirement, required and optional alike.
	slots := f.slotRepo.Calls[0].Arguments.Get(1).([]domain.UploadSlot)
	assert.Len(t, slots, 5)
	for _, s := range slots {
		assert.Equal(t, reg.ID, s.RegistrationID)
		assert.Equal(t, domain.SlotStatusEmpty, s.Status)
	}
}

func TestRegistrationService_Create_UnknownActivity(t *testing.T) {
	f := newRegServiceFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), service.CreateRegistrationInput{
		Activity: "bakery", BusinessName: "x",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownActivityType)
	f.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Create_DuplicateActivity(t *testing.T) {
	f := newRegServiceFixture()

	f.regRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Registration")).
		Return(domain.ErrDuplicateActivity)

	_, err := f.svc.Create(context.Background(), uuid.New(), service.CreateRegistrationInput{
		Activity: domain.ActivityPharmacy, BusinessName: "x",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateActivity)
}

func TestRegistrationService_Submit_IncompleteChecklist(t *testing.T) {
	f := newRegServiceFixture()
	userID := uuid.New()
	reg := draftRegistration(userID)

	slots := pharmacySlots(reg.ID, domain.SlotStatusUploaded)
	slots[0].Status = domain.SlotStatusEmpty // one required document missing

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.slotRepo.On("ListByRegistration", mock.Anything, reg.ID).Return(slots, nil)

	_, err := f.svc.Submit(context.Background(), userID, reg.ID)
	assert.ErrorIs(t, err, domain.ErrChecklistIncomplete)
	f.regRepo.AssertNotCalled(t, "MarkSubmitted", mock.Anything, mock.Anything, mock.Anything)
	f.email.AssertNotCalled(t, "SendSubmissionReceived",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_Submit_Complete(t *testing.T) {
	f := newRegServiceFixture()
	userID := uuid.New()
	reg := draftRegistration(userID)
	reg.BusinessName = "Good Health Pharmacy"

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.slotRepo.On("ListByRegistration", mock.Anything, reg.ID).
		Return(pharmacySlots(reg.ID, domain.SlotStatusUploaded), nil)
	f.regRepo.On("MarkSubmitted", mock.Anything, reg.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID: userID, Email: "owner@example.com", FullName: "Owner",
	}, nil)
	f.email.On("SendSubmissionReceived", mock.Anything, "owner@example.com", "Owner",
		domain.ActivityPharmacy, "Good Health Pharmacy").Return(nil)

	got, err := f.svc.Submit(context.Background(), userID, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusSubmitted, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.SubmittedAt, 5*time.Second)
	f.email.AssertExpectations(t)
}

func TestRegistrationService_Submit_NotOwner(t *testing.T) {
	f := newRegServiceFixture()
	reg := draftRegistration(uuid.New())

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)

	_, err := f.svc.Submit(context.Background(), uuid.New(), reg.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegistrationService_Submit_AlreadySubmitted(t *testing.T) {
	f := newRegServiceFixture()
	userID := uuid.New()
	reg := draftRegistration(userID)
	reg.Status = domain.RegistrationStatusSubmitted

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)

	_, err := f.svc.Submit(context.Background(), userID, reg.ID)
	assert.ErrorIs(t, err, domain.ErrRegistrationNotDraft)
}

func TestRegistrationService_Submit_EmailFailureDoesNotFailSubmit(t *testing.T) {
	f := newRegServiceFixture()
	userID := uuid.New()
	reg := draftRegistration(userID)

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.slotRepo.On("ListByRegistration", mock.Anything, reg.ID).
		Return(pharmacySlots(reg.ID, domain.SlotStatusUploaded), nil)
	f.regRepo.On("MarkSubmitted", mock.Anything, reg.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID, Email: "o@x.com"}, nil)
	f.email.On("SendSubmissionReceived", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := f.svc.Submit(context.Background(), userID, reg.ID)
	assert.NoError(t, err)
}

func TestRegistrationService_Review_Approve(t *testing.T) {
	f := newRegServiceFixture()
	reviewerID := uuid.New()
	ownerID := uuid.New()
	reg := draftRegistration(ownerID)
	reg.Status = domain.RegistrationStatusSubmitted

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.regRepo.On("Review", mock.Anything, reg.ID, domain.RegistrationStatusApproved, reviewerID, "all good").Return(nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(&domain.User{
		ID: ownerID, Email: "owner@example.com", FullName: "Owner",
	}, nil)
	f.email.On("SendDecision", mock.Anything, "owner@example.com", "Owner",
		domain.ActivityPharmacy, true, "all good").Return(nil)

	got, err := f.svc.Review(context.Background(), reviewerID, reg.ID, service.ReviewInput{
		Approve: true, Notes: "all good",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusApproved, got.Status)
	f.email.AssertExpectations(t)
}

func TestRegistrationService_Review_Reject(t *testing.T) {
	f := newRegServiceFixture()
	reviewerID := uuid.New()
	ownerID := uuid.New()
	reg := draftRegistration(ownerID)
	reg.Status = domain.RegistrationStatusSubmitted

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.regRepo.On("Review", mock.Anything, reg.ID, domain.RegistrationStatusRejected, reviewerID, "blurry documents").Return(nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(&domain.User{ID: ownerID, Email: "o@x.com"}, nil)
	f.email.On("SendDecision", mock.Anything, mock.Anything, mock.Anything,
		domain.ActivityPharmacy, false, "blurry documents").Return(nil)

	got, err := f.svc.Review(context.Background(), reviewerID, reg.ID, service.ReviewInput{
		Approve: false, Notes: "blurry documents",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusRejected, got.Status)
}

func TestRegistrationService_EnsureSlots_Idempotent(t *testing.T) {
	f := newRegServiceFixture()
	userID := uuid.New()
	reg := draftRegistration(userID)

	f.regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.slotRepo.On("Ensure", mock.Anything, mock.AnythingOfType("[]domain.UploadSlot")).Return(nil)

	require.NoError(t, f.svc.EnsureSlots(context.Background(), userID, domain.RoleApplicant, reg.ID))
	require.NoError(t, f.svc.EnsureSlots(context.Background(), userID, domain.RoleApplicant, reg.ID))

	// Re-rendering hands the same slot set to the repository both times; the
	// repository's conflict handling keeps rows unique.
	first := f.slotRepo.Calls[0].Arguments.Get(1).([]domain.UploadSlot)
	second := f.slotRepo.Calls[1].Arguments.Get(1).([]domain.UploadSlot)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].RequirementID, second[i].RequirementID)
	}
}
