package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"luxbyte/internal/domain"
	"luxbyte/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendSubmissionReceived(ctx context.Context, toEmail, toName string, activity domain.ActivityType, businessName string) error {
	subject := "Your LUXBYTE registration was received"
	dashboardURL := fmt.Sprintf("%s/dashboard/%s", s.frontendURL, activity)
	htmlBody := buildSubmissionHTML(toName, businessName, string(activity), dashboardURL)
	textBody := fmt.Sprintf("Hi %s,\n\nWe received the registration for %q and all its documents. Our compliance team will review them shortly; you can follow the status at:\n%s\n\nLUXBYTE Team", toName, businessName, dashboardURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendDecision(ctx context.Context, toEmail, toName string, activity domain.ActivityType, approved bool, notes string) error {
	subject := "Your LUXBYTE registration was rejected"
	if approved {
		subject = "Your LUXBYTE registration was approved"
	}
	dashboardURL := fmt.Sprintf("%s/dashboard/%s", s.frontendURL, activity)
	htmlBody := buildDecisionHTML(toName, approved, notes, dashboardURL)
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	textBody := fmt.Sprintf("Hi %s,\n\nYour registration was %s.\n%s\n\nDashboard: %s\n\nLUXBYTE Team", toName, verdict, notes, dashboardURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSubmissionHTML(name, businessName, activity, dashboardURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Registration received</h2>
  <p>Hi %s,</p>
  <p>We received the %s registration for <strong>%s</strong> together with all required documents. Our compliance team will review them shortly.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #C9A227; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open Dashboard</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">LUXBYTE - Business Registration Platform</p>
</body>
</html>`, name, activity, businessName, dashboardURL)
}

func buildDecisionHTML(name string, approved bool, notes, dashboardURL string) string {
	heading := "Registration rejected"
	lead := "Unfortunately your registration could not be approved."
	if approved {
		heading = "Registration approved"
		lead = "Congratulations, your registration has been approved!"
	}
	notesBlock := ""
	if notes != "" {
		notesBlock = fmt.Sprintf(`<p style="color: #666;">Reviewer notes: %s</p>`, notes)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Hi %s,</p>
  <p>%s</p>
  %s
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #C9A227; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open Dashboard</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">LUXBYTE - Business Registration Platform</p>
</body>
</html>`, heading, name, lead, notesBlock, dashboardURL)
}
