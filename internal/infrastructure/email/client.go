// Package email provides the email client for sending transactional
// newsletter emails.
package email

import (
	"fmt"

	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	Send(toEmail, subject, htmlContent, textContent string) error
}

// ResendClient is the concrete implementation of the email Service using
// the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service
// interface. The caller is expected to have verified cfg.EmailConfigured.
func NewService(cfg *config.Config) (Service, error) {
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(cfg.ResendAPIKey),
		fromEmail: cfg.EmailFrom,
		fromName:  cfg.EmailFromName,
	}, nil
}

// Send submits a single outbound email through Resend.
func (c *ResendClient) Send(toEmail, subject, htmlContent, textContent string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
		Text:    textContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	return nil
}
