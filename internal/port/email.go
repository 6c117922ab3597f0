package port

import (
	"context"

	"luxbyte/internal/domain"
)

// EmailSender abstracts transactional email delivery.
type EmailSender interface {
	SendSubmissionReceived(ctx context.Context, toEmail, toName string, activity domain.ActivityType, businessName string) error
	SendDecision(ctx context.Context, toEmail, toName string, activity domain.ActivityType, approved bool, notes string) error
}
