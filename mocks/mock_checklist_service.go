package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
)

// MockChecklistService is a mock implementation of service.ChecklistService.
type MockChecklistService struct {
	mock.Mock
}

func (m *MockChecklistService) Get(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) (*domain.Checklist, error) {
	args := m.Called(ctx, actorID, actorRole, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checklist), args.Error(1)
}
