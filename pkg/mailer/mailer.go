package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"
)

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, config: cfg}
}

// SendParams describes one templated message.
type SendParams struct {
	Data     any
	To       Address
	Template string // e.g. "confirm_comment.md"

	Subject string // overrides the front matter subject
	Layout  string
	ReplyTo string
	CC      []Address
	BCC     []Address
}

// Send renders params.Template into the layout and sends it. The subject is
// params.Subject, else the template's "Subject" front matter, else the
// configured fallback; it may use template actions.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To.Email == "" {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}
	res, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return err
	}

	subject := params.Subject
	if subject == "" {
		subject, _ = res.Metadata["Subject"].(string)
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}
	subject, err = executeText(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	return m.SendRaw(ctx, &Email{
		To:      []Address{params.To},
		CC:      params.CC,
		BCC:     params.BCC,
		ReplyTo: params.ReplyTo,
		Subject: subject,
		HTML:    res.HTML,
		Text:    res.Text,
	})
}

// SendRaw sends a prepared email, filling From from the config when unset.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if email.From.Email == "" {
		email.From = ParseAddress(m.config.From, "")
	}
	if err := email.Validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

func executeText(src string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
