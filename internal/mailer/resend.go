package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends verification mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) SendVerificationEmail(ctx context.Context, email, link string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Verify your email address",
		Text:    fmt.Sprintf("Welcome! Please verify your email address by visiting:\n\n%s\n\nThe link expires shortly.", link),
	}

	_, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send via resend: %w", err)
	}
	slog.Info("verification email sent", "to", email)
	return nil
}
