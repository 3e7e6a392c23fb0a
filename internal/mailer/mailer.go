package mailer

import (
	"context"
	"log/slog"
	"net/url"
)

type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, link string) error
}

// DevConsoleMailer logs the verification link instead of sending mail.
type DevConsoleMailer struct{}

func NewDevConsoleMailer() *DevConsoleMailer { return &DevConsoleMailer{} }

func (m *DevConsoleMailer) SendVerificationEmail(_ context.Context, email, link string) error {
	slog.Info("verification email (dev mode)", "to", email, "link", link)
	return nil
}

// VerificationLink builds the link a user follows to verify the
// address. Email and token are query-escaped so addresses with +, %
// or other reserved characters round-trip intact.
func VerificationLink(appURL, email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return appURL + "/verify?" + q.Encode()
}
