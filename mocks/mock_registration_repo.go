package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
)

// MockRegistrationRepo is a mock implementation of port.RegistrationRepository.
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationRepo) GetByUserAndActivity(ctx context.Context, userID uuid.UUID, activity domain.ActivityType) (*domain.Registration, error) {
	args := m.Called(ctx, userID, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Registration), args.Error(1)
}

func (m *MockRegistrationRepo) ListByStatus(ctx context.Context, status domain.RegistrationStatus, offset, limit int) ([]domain.Registration, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Registration), args.Int(1), args.Error(2)
}

func (m *MockRegistrationRepo) MarkSubmitted(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockRegistrationRepo) Review(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus, reviewer uuid.UUID, notes string) error {
	args := m.Called(ctx, id, status, reviewer, notes)
	return args.Error(0)
}
