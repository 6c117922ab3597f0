package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendSubmissionReceived(ctx context.Context, toEmail, toName string, activity domain.ActivityType, businessName string) error {
	args := m.Called(ctx, toEmail, toName, activity, businessName)
	return args.Error(0)
}

func (m *MockEmailSender) SendDecision(ctx context.Context, toEmail, toName string, activity domain.ActivityType, approved bool, notes string) error {
	args := m.Called(ctx, toEmail, toName, activity, approved, notes)
	return args.Error(0)
}
