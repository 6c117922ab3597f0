package noop

import (
	"context"

	"go.uber.org/zap"

	"luxbyte/internal/domain"
	"luxbyte/internal/port"
	"luxbyte/pkg/logger"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendSubmissionReceived(_ context.Context, toEmail, toName string, activity domain.ActivityType, businessName string) error {
	logger.Info("[noop email] submission received",
		zap.String("to", toEmail),
		zap.String("name", toName),
		zap.String("activity", string(activity)),
		zap.String("business", businessName))
	return nil
}

func (s *noopSender) SendDecision(_ context.Context, toEmail, toName string, activity domain.ActivityType, approved bool, notes string) error {
	logger.Info("[noop email] registration decision",
		zap.String("to", toEmail),
		zap.String("activity", string(activity)),
		zap.Bool("approved", approved),
		zap.String("notes", notes))
	return nil
}
