package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"luxbyte/internal/domain"
	"luxbyte/internal/manifest"
	"luxbyte/internal/port"
	"luxbyte/pkg/logger"
)

// CreateRegistrationInput is the DTO for starting a registration.
type CreateRegistrationInput struct {
	Activity     domain.ActivityType `json:"activity" binding:"required"`
	BusinessName string              `json:"business_name" binding:"required"`
}

// ReviewInput is the DTO for an admin decision.
type ReviewInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// RegistrationService manages registration sessions and their lifecycle:
// draft, submitted, approved or rejected.
type RegistrationService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateRegistrationInput) (*domain.Registration, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) (*domain.Registration, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error)
	// EnsureSlots materializes the slot rows the activity manifest calls for.
	// Safe to call any number of times; existing slots are untouched.
	EnsureSlots(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) error
	// Submit moves a complete draft to submitted. An incomplete checklist is
	// refused with domain.ErrChecklistIncomplete.
	Submit(ctx context.Context, userID, registrationID uuid.UUID) (*domain.Registration, error)
	// ListByStatus pages registrations for admin review.
	ListByStatus(ctx context.Context, status domain.RegistrationStatus, offset, limit int) ([]domain.Registration, int, error)
	// Review records an admin decision on a submitted registration.
	Review(ctx context.Context, reviewerID, registrationID uuid.UUID, input ReviewInput) (*domain.Registration, error)
}

type registrationService struct {
	regRepo   port.RegistrationRepository
	slotRepo  port.SlotRepository
	userRepo  port.UserRepository
	registry  *manifest.Registry
	checklist ChecklistService
	email     port.EmailSender
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	regRepo port.RegistrationRepository,
	slotRepo port.SlotRepository,
	userRepo port.UserRepository,
	registry *manifest.Registry,
	checklist ChecklistService,
	email port.EmailSender,
) RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		slotRepo:  slotRepo,
		userRepo:  userRepo,
		registry:  registry,
		checklist: checklist,
		email:     email,
	}
}

func (s *registrationService) Create(ctx context.Context, userID uuid.UUID, input CreateRegistrationInput) (*domain.Registration, error) {
	m, err := s.registry.GetManifest(input.Activity)
	if err != nil {
		return nil, err
	}

	reg := &domain.Registration{
		ID:           uuid.New(),
		UserID:       userID,
		Activity:     input.Activity,
		BusinessName: input.BusinessName,
		Status:       domain.RegistrationStatusDraft,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err // ErrDuplicateActivity propagates naturally
	}

	if err := s.ensureSlots(ctx, reg, m); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) Get(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != actorID && actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

func (s *registrationService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	return s.regRepo.ListByUser(ctx, userID)
}

func (s *registrationService) EnsureSlots(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) error {
	reg, err := s.Get(ctx, actorID, actorRole, registrationID)
	if err != nil {
		return err
	}
	m, err := s.registry.GetManifest(reg.Activity)
	if err != nil {
		return err
	}
	return s.ensureSlots(ctx, reg, m)
}

func (s *registrationService) ensureSlots(ctx context.Context, reg *domain.Registration, m *domain.ActivityManifest) error {
	reqs := m.All()
	slots := make([]domain.UploadSlot, 0, len(reqs))
	for _, req := range reqs {
		slots = append(slots, domain.UploadSlot{
			RegistrationID: reg.ID,
			RequirementID:  req.ID,
			Mandatory:      req.Mandatory,
			Status:         domain.SlotStatusEmpty,
		})
	}
	return s.slotRepo.Ensure(ctx, slots)
}

func (s *registrationService) Submit(ctx context.Context, userID, registrationID uuid.UUID) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if reg.Status != domain.RegistrationStatusDraft {
		return nil, domain.ErrRegistrationNotDraft
	}

	cl, err := s.checklist.Get(ctx, userID, domain.RoleApplicant, registrationID)
	if err != nil {
		return nil, err
	}
	if !cl.IsComplete() {
		missing := 0
		for i := range cl.Required {
			if cl.Required[i].Status != domain.SlotStatusUploaded {
				missing++
			}
		}
		return nil, fmt.Errorf("%w: %d required document(s) missing", domain.ErrChecklistIncomplete, missing)
	}

	now := time.Now().UTC()
	if err := s.regRepo.MarkSubmitted(ctx, registrationID, now); err != nil {
		return nil, err
	}
	reg.Status = domain.RegistrationStatusSubmitted
	reg.SubmittedAt = &now

	s.sendSubmissionEmail(ctx, reg)
	return reg, nil
}

func (s *registrationService) ListByStatus(ctx context.Context, status domain.RegistrationStatus, offset, limit int) ([]domain.Registration, int, error) {
	return s.regRepo.ListByStatus(ctx, status, offset, limit)
}

func (s *registrationService) Review(ctx context.Context, reviewerID, registrationID uuid.UUID, input ReviewInput) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	status := domain.RegistrationStatusRejected
	if input.Approve {
		status = domain.RegistrationStatusApproved
	}
	if err := s.regRepo.Review(ctx, registrationID, status, reviewerID, input.Notes); err != nil {
		return nil, err
	}
	reg.Status = status
	reg.ReviewedBy = &reviewerID
	reg.ReviewerNotes = input.Notes
	now := time.Now().UTC()
	reg.ReviewedAt = &now

	s.sendDecisionEmail(ctx, reg, input.Approve, input.Notes)
	return reg, nil
}

// Email delivery is best effort; a failed notification never rolls back the
// state change it announces.
func (s *registrationService) sendSubmissionEmail(ctx context.Context, reg *domain.Registration) {
	owner, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		logger.Warn("could not load owner for submission email",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
		return
	}
	if err := s.email.SendSubmissionReceived(ctx, owner.Email, owner.FullName, reg.Activity, reg.BusinessName); err != nil {
		logger.Warn("submission email failed",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
	}
}

func (s *registrationService) sendDecisionEmail(ctx context.Context, reg *domain.Registration, approved bool, notes string) {
	owner, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		logger.Warn("could not load owner for decision email",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
		return
	}
	if err := s.email.SendDecision(ctx, owner.Email, owner.FullName, reg.Activity, approved, notes); err != nil {
		logger.Warn("decision email failed",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
	}
}
