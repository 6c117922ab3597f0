package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, registrationID, docID uuid.UUID) (*domain.DocumentRecord, error) {
	args := m.Called(ctx, registrationID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.DocumentRecord, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, registrationID, docID uuid.UUID, status domain.DocumentStatus) error {
	args := m.Called(ctx, registrationID, docID, status)
	return args.Error(0)
}
