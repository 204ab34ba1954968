package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/resend/resend-go/v3"

	"synthetic-rights/internal/config"
)

type Service interface {
	SendCertificateIssued(ctx context.Context, toEmail, ownerName, workTitle, certificateID, certificateURL string) error
	SendCertificateRevoked(ctx context.Context, toEmail, ownerName, certificateID, reason string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var issuedTemplate = template.Must(template.New("issued").Parse(`
<h2>Your certificate is ready</h2>
<p>Hi {{.OwnerName}},</p>
<p>A verification certificate has been issued for <strong>{{.WorkTitle}}</strong>.</p>
<p>Certificate ID: <code>{{.CertificateID}}</code></p>
<p><a href="{{.CertificateURL}}">View your certificate</a></p>
`))

var revokedTemplate = template.Must(template.New("revoked").Parse(`
<h2>Certificate revoked</h2>
<p>Hi {{.OwnerName}},</p>
<p>Certificate <code>{{.CertificateID}}</code> has been revoked.</p>
<p>Reason: {{.Reason}}</p>
`))

func (s *service) SendCertificateIssued(ctx context.Context, toEmail, ownerName, workTitle, certificateID, certificateURL string) error {
	return s.send(ctx, toEmail, "Your ownership certificate is ready", issuedTemplate, map[string]string{
		"OwnerName":      ownerName,
		"WorkTitle":      workTitle,
		"CertificateID":  certificateID,
		"CertificateURL": certificateURL,
	})
}

func (s *service) SendCertificateRevoked(ctx context.Context, toEmail, ownerName, certificateID, reason string) error {
	return s.send(ctx, toEmail, "Certificate revoked", revokedTemplate, map[string]string{
		"OwnerName":     ownerName,
		"CertificateID": certificateID,
		"Reason":        reason,
	})
}

func (s *service) send(ctx context.Context, toEmail, subject string, tmpl *template.Template, data any) error {
	if s.config.ResendAPIKey == "" {
		log.Printf("Email disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("SyntheticRights <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
