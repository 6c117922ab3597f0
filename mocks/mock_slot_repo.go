package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
)

// MockSlotRepo is a mock implementation of port.SlotRepository.
type MockSlotRepo struct {
	mock.Mock
}

func (m *MockSlotRepo) Ensure(ctx context.Context, slots []domain.UploadSlot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockSlotRepo) Get(ctx context.Context, registrationID uuid.UUID, requirementID string) (*domain.UploadSlot, error) {
	args := m.Called(ctx, registrationID, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSlot), args.Error(1)
}

func (m *MockSlotRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.UploadSlot, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadSlot), args.Error(1)
}

func (m *MockSlotRepo) MarkValidating(ctx context.Context, registrationID uuid.UUID, requirementID string) error {
	args := m.Called(ctx, registrationID, requirementID)
	return args.Error(0)
}

func (m *MockSlotRepo) MarkUploading(ctx context.Context, registrationID uuid.UUID, requirementID string) error {
	args := m.Called(ctx, registrationID, requirementID)
	return args.Error(0)
}

func (m *MockSlotRepo) MarkUploaded(ctx context.Context, registrationID uuid.UUID, requirementID string, docID uuid.UUID, remoteKey, remoteURL string) error {
	args := m.Called(ctx, registrationID, requirementID, docID, remoteKey, remoteURL)
	return args.Error(0)
}

func (m *MockSlotRepo) MarkFailed(ctx context.Context, registrationID uuid.UUID, requirementID string, reason, message string) error {
	args := m.Called(ctx, registrationID, requirementID, reason, message)
	return args.Error(0)
}

func (m *MockSlotRepo) Reset(ctx context.Context, registrationID uuid.UUID, requirementID string) error {
	args := m.Called(ctx, registrationID, requirementID)
	return args.Error(0)
}

func (m *MockSlotRepo) FailStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
