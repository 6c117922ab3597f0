package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) RegistrationsXLSX(ctx context.Context, status domain.RegistrationStatus) ([]byte, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
