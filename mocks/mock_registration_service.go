package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
	"luxbyte/internal/service"
)

// MockRegistrationService is a mock implementation of service.RegistrationService.
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Create(ctx context.Context, userID uuid.UUID, input service.CreateRegistrationInput) (*domain.Registration, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) Get(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) (*domain.Registration, error) {
	args := m.Called(ctx, actorID, actorRole, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) EnsureSlots(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID uuid.UUID) error {
	args := m.Called(ctx, actorID, actorRole, registrationID)
	return args.Error(0)
}

func (m *MockRegistrationService) Submit(ctx context.Context, userID, registrationID uuid.UUID) (*domain.Registration, error) {
	args := m.Called(ctx, userID, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) ListByStatus(ctx context.Context, status domain.RegistrationStatus, offset, limit int) ([]domain.Registration, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Registration), args.Int(1), args.Error(2)
}

func (m *MockRegistrationService) Review(ctx context.Context, reviewerID, registrationID uuid.UUID, input service.ReviewInput) (*domain.Registration, error) {
	args := m.Called(ctx, reviewerID, registrationID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}
