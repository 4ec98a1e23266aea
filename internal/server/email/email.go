package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/harborline/harborline/internal/server/content"
)

var ErrDisabled = errors.New("email service is disabled")

const inquiryTemplate = `
<h2>New inquiry via the website</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
{{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>{{end}}
<blockquote>{{.Body}}</blockquote>
`

var inquiryTmpl = template.Must(template.New("inquiry").Parse(inquiryTemplate))

// EmailService sends transactional mail. Currently its only job is
// notifying the site owner about contact-form inquiries.
type EmailService struct {
	config *Config
}

func NewEmailService(config *Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) IsEnabled() bool {
	return s.config.Enabled
}

// NotifyInquiry emails the configured recipient about a new contact-form
// message. Reply-To is set to the inquirer so the owner can answer directly.
func (s *EmailService) NotifyInquiry(ctx context.Context, msg *content.Message) error {
	if !s.config.Enabled {
		return ErrDisabled
	}

	var body bytes.Buffer
	if err := inquiryTmpl.Execute(&body, msg); err != nil {
		return fmt.Errorf("render inquiry email: %w", err)
	}

	subject := msg.Subject
	if subject == "" {
		subject = "Website inquiry"
	}

	from := mail.NewEmail(s.config.FromName, s.config.FromEmail)
	to := mail.NewEmail("", s.config.NotifyEmail)
	message := mail.NewSingleEmail(from, subject, to, "", body.String())
	message.SetReplyTo(mail.NewEmail(msg.Name, msg.Email))

	client := sendgrid.NewSendClient(s.config.SendgridAPIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send inquiry email: %w", err)
	}

	slog.Debug("inquiry email sent",
		"to", s.config.NotifyEmail, "status", resp.StatusCode, "messageId", resp.Headers["X-Message-Id"])
	return nil
}
