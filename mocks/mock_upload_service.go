package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
	"luxbyte/internal/intake"
	"luxbyte/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, userID, registrationID uuid.UUID, requirementID string, file *intake.RawFile) (*domain.UploadSlot, error) {
	args := m.Called(ctx, userID, registrationID, requirementID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSlot), args.Error(1)
}

func (m *MockUploadService) RetryPersist(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) (*domain.UploadSlot, error) {
	args := m.Called(ctx, userID, registrationID, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSlot), args.Error(1)
}

func (m *MockUploadService) Remove(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) error {
	args := m.Called(ctx, userID, registrationID, requirementID)
	return args.Error(0)
}

func (m *MockUploadService) Delete(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) error {
	args := m.Called(ctx, userID, registrationID, requirementID)
	return args.Error(0)
}

func (m *MockUploadService) DownloadURL(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID, docID uuid.UUID) (string, error) {
	args := m.Called(ctx, actorID, actorRole, registrationID, docID)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) SetProgressFunc(fn service.ProgressFunc) {
	m.Called(fn)
}
