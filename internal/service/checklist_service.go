package service

import (
	"context"

	"github.com/google/uuid"

	"luxbyte/internal/domain"
	"luxbyte/internal/manifest"
	"luxbyte/internal/port"
)

// ChecklistService rebuilds a registration's checklist from its slots on
// every read. Completeness is always derived from storage, never cached, so
// a checklist can never report complete while a required slot is empty.
type ChecklistService interface {
	Get(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) (*domain.Checklist, error)
}

type checklistService struct {
	regRepo  port.RegistrationRepository
	slotRepo port.SlotRepository
	registry *manifest.Registry
}

// NewChecklistService creates a ChecklistService.
func NewChecklistService(regRepo port.RegistrationRepository, slotRepo port.SlotRepository, registry *manifest.Registry) ChecklistService {
	return &checklistService{regRepo: regRepo, slotRepo: slotRepo, registry: registry}
}

func (s *checklistService) Get(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) (*domain.Checklist, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != actorID && actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.build(ctx, reg)
}

// build assembles the checklist in manifest order. Slots missing from
// storage (a manifest grew after the registration was created) appear as
// empty so the checklist always mirrors the current manifest.
func (s *checklistService) build(ctx context.Context, reg *domain.Registration) (*domain.Checklist, error) {
	m, err := s.registry.GetManifest(reg.Activity)
	if err != nil {
		return nil, err
	}
	slots, err := s.slotRepo.ListByRegistration(ctx, reg.ID)
	if err != nil {
		return nil, err
	}

	byReq := make(map[string]*domain.UploadSlot, len(slots))
	for i := range slots {
		byReq[slots[i].RequirementID] = &slots[i]
	}

	pick := func(req domain.DocumentRequirement) domain.UploadSlot {
		if slot, ok := byReq[req.ID]; ok {
			return *slot
		}
		return domain.UploadSlot{
			RegistrationID: reg.ID,
			RequirementID:  req.ID,
			Mandatory:      req.Mandatory,
			Status:         domain.SlotStatusEmpty,
		}
	}

	cl := &domain.Checklist{
		RegistrationID: reg.ID,
		Activity:       reg.Activity,
		Required:       make([]domain.UploadSlot, 0, len(m.Required)),
		Optional:       make([]domain.UploadSlot, 0, len(m.Optional)),
	}
	for _, req := range m.Required {
		cl.Required = append(cl.Required, pick(req))
	}
	for _, req := range m.Optional {
		cl.Optional = append(cl.Optional, pick(req))
	}
	return cl, nil
}
