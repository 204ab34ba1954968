package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/google/uuid"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/repository"
)

var ErrCertificateNotFound = errors.New("certificate not found")

type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatHTML, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Watermark overlays diagonal text on PDF exports.
type Watermark struct {
	Enabled  bool
	Text     string
	Opacity  float64 // 0..1
	Angle    float64 // degrees
	Color    string  // #RRGGBB
	FontSize float64
}

func DefaultWatermark() Watermark {
	return Watermark{
		Enabled:  true,
		Text:     "SYNTHETICRIGHTS SECURE DOCUMENT",
		Opacity:  0.12,
		Angle:    45,
		Color:    "#1a56db",
		FontSize: 36,
	}
}

// Artifact is a rendered certificate ready for download.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

type Service interface {
	Export(ctx context.Context, callerID uuid.UUID, certificateID string, format Format) (*Artifact, error)
	ExportCertificate(ctx context.Context, cert *domain.Certificate, format Format) (*Artifact, error)
}

type service struct {
	certRepo  repository.CertificateRepository
	workRepo  repository.WorkRepository
	userRepo  repository.UserRepository
	watermark Watermark
	cfg       *config.Config
}

func NewService(certRepo repository.CertificateRepository, workRepo repository.WorkRepository, userRepo repository.UserRepository, cfg *config.Config) Service {
	return &service{
		certRepo:  certRepo,
		workRepo:  workRepo,
		userRepo:  userRepo,
		watermark: DefaultWatermark(),
		cfg:       cfg,
	}
}

func (s *service) Export(ctx context.Context, callerID uuid.UUID, certificateID string, format Format) (*Artifact, error) {
	cert, err := s.certRepo.GetByID(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	if cert == nil || cert.OwnerID != callerID {
		return nil, ErrCertificateNotFound
	}
	return s.ExportCertificate(ctx, cert, format)
}

func (s *service) ExportCertificate(ctx context.Context, cert *domain.Certificate, format Format) (*Artifact, error) {
	switch format {
	case FormatJSON:
		return s.renderJSON(cert)
	case FormatHTML:
		return s.renderHTML(ctx, cert)
	case FormatPDF:
		return s.renderPDF(ctx, cert)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func (s *service) renderJSON(cert *domain.Certificate) (*Artifact, error) {
	artifact := domain.CertificateArtifact{
		Metadata:           cert.Metadata,
		Signature:          cert.Signature,
		CertificateVersion: cert.Metadata.Version,
		PublicURL:          cert.PublicURL,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return nil, err
	}

	return &Artifact{
		FileName:    cert.ID + ".json",
		ContentType: "application/json",
		Data:        data,
	}, nil
}

type renderContext struct {
	CertificateID string
	WorkTitle     string
	OwnerName     string
	Type          string
	IssuedAt      string
	ExpiresAt     string
	IsRevoked     bool
	VerifyURL     string
	NetworkName   string
	TransactionID string
	MetadataHash  string
}

func (s *service) buildRenderContext(ctx context.Context, cert *domain.Certificate) (*renderContext, error) {
	rc := &renderContext{
		CertificateID: cert.ID,
		Type:          string(cert.Type),
		IssuedAt:      cert.Metadata.IssuedAt.Format("January 2, 2006"),
		ExpiresAt:     "Never",
		IsRevoked:     cert.IsRevoked,
		VerifyURL:     cert.PublicURL,
		MetadataHash:  cert.Metadata.MetadataHash,
	}
	if cert.ExpiresAt != nil {
		rc.ExpiresAt = cert.ExpiresAt.Format("January 2, 2006")
	}
	if cert.Metadata.NetworkName != nil {
		rc.NetworkName = *cert.Metadata.NetworkName
	}
	if cert.Metadata.TransactionID != nil {
		rc.TransactionID = *cert.Metadata.TransactionID
	}

	work, err := s.workRepo.GetByID(ctx, cert.WorkID)
	if err != nil {
		return nil, err
	}
	if work != nil {
		rc.WorkTitle = work.Title
	}

	owner, err := s.userRepo.GetByID(ctx, cert.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		rc.OwnerName = owner.DisplayName
	}

	return rc, nil
}

var htmlTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Certificate {{.CertificateID}}</title>
</head>
<body>
<div class="certificate">
  <h1>Certificate of Registration</h1>
  <p class="subtitle">SyntheticRights creative work registry</p>
  <h2>{{.WorkTitle}}</h2>
  <p>Registered to <strong>{{.OwnerName}}</strong></p>
  <dl>
    <dt>Certificate ID</dt><dd>{{.CertificateID}}</dd>
    <dt>Certificate type</dt><dd>{{.Type}}</dd>
    <dt>Issued</dt><dd>{{.IssuedAt}}</dd>
    <dt>Expires</dt><dd>{{.ExpiresAt}}</dd>
    <dt>Metadata hash</dt><dd><code>{{.MetadataHash}}</code></dd>
    {{if .TransactionID}}<dt>Transaction</dt><dd><code>{{.TransactionID}}</code> ({{.NetworkName}})</dd>{{end}}
  </dl>
  {{if .IsRevoked}}<p class="revoked">REVOKED</p>{{end}}
  <div class="qr" data-verify-url="{{.VerifyURL}}">[QR]</div>
  <p class="verify">Verify at {{.VerifyURL}}</p>
</div>
</body>
</html>
`))

func (s *service) renderHTML(ctx context.Context, cert *domain.Certificate) (*Artifact, error) {
	rc, err := s.buildRenderContext(ctx, cert)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, rc); err != nil {
		return nil, err
	}

	return &Artifact{
		FileName:    cert.ID + ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}
