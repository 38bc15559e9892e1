// Package resend delivers mailer.Email values through the Resend HTTP API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/inkwell/pkg/mailer"
)

// Sender implements mailer.Sender.
type Sender struct {
	client *resend.Client
}

func New(cfg Config) *Sender {
	return &Sender{client: resend.NewClient(cfg.APIKey)}
}

// NewWithClient uses a preconfigured client, for example one pointed at a
// test server.
func NewWithClient(client *resend.Client) *Sender {
	return &Sender{client: client}
}

func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	req := &resend.SendEmailRequest{
		From:    email.From.String(),
		To:      addresses(email.To),
		Cc:      addresses(email.CC),
		Bcc:     addresses(email.BCC),
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Headers: email.Headers,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: send: %w", err)
	}
	return nil
}

func addresses(list []mailer.Address) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.String()
	}
	return out
}
