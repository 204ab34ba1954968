package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/service/export"
	"synthetic-rights/tests/mocks"
)

func exportConfig() *config.Config {
	return &config.Config{PublicBaseURL: "http://localhost:8080"}
}

func sampleCertificate(ownerID uuid.UUID) *domain.Certificate {
	tx := "0xabc123"
	network := "polygon-amoy"
	meta := domain.CertificateMetadata{
		Version:       domain.CertificateMetadataVersion,
		CertificateID: "CERT-01JEXPORT000000000000000",
		WorkID:        uuid.New(),
		MetadataHash:  "deadbeefcafe",
		RegisteredAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		TransactionID: &tx,
		NetworkName:   &network,
		IssuedAt:      time.Date(2026, 2, 1, 12, 0, 1, 0, time.UTC),
	}
	return &domain.Certificate{
		ID:        meta.CertificateID,
		WorkID:    meta.WorkID,
		OwnerID:   ownerID,
		Type:      domain.CertificatePremium,
		Metadata:  meta,
		Signature: "c2lnbmF0dXJl",
		PublicURL: "http://localhost:8080/api/v1/verify/" + meta.CertificateID,
	}
}

func TestExportService_Export(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("JSON Artifact", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		cert := sampleCertificate(ownerID)
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()

		svc := export.NewService(certRepo, new(mocks.WorkRepository), new(mocks.UserRepository), exportConfig())

		artifact, err := svc.Export(ctx, ownerID, cert.ID, export.FormatJSON)

		assert.NoError(t, err)
		assert.Equal(t, cert.ID+".json", artifact.FileName)
		assert.Equal(t, "application/json", artifact.ContentType)

		var decoded domain.CertificateArtifact
		assert.NoError(t, json.Unmarshal(artifact.Data, &decoded))
		assert.Equal(t, cert.Signature, decoded.Signature)
		assert.Equal(t, domain.CertificateMetadataVersion, decoded.CertificateVersion)
		assert.Equal(t, cert.PublicURL, decoded.PublicURL)
		assert.Equal(t, cert.Metadata.MetadataHash, decoded.Metadata.MetadataHash)
	})

	t.Run("HTML Artifact", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)
		userRepo := new(mocks.UserRepository)

		cert := sampleCertificate(ownerID)
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(&domain.CreativeWork{ID: cert.WorkID, Title: "Neon Skyline"}, nil).Once()
		userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, DisplayName: "Alex Rivera"}, nil).Once()

		svc := export.NewService(certRepo, workRepo, userRepo, exportConfig())

		artifact, err := svc.Export(ctx, ownerID, cert.ID, export.FormatHTML)

		assert.NoError(t, err)
		assert.Equal(t, cert.ID+".html", artifact.FileName)
		html := string(artifact.Data)
		assert.Contains(t, html, "Neon Skyline")
		assert.Contains(t, html, "Alex Rivera")
		assert.Contains(t, html, cert.PublicURL)
		assert.Contains(t, html, "0xabc123")
		assert.NotContains(t, html, "REVOKED")
	})

	t.Run("Revoked Marker", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)
		userRepo := new(mocks.UserRepository)

		cert := sampleCertificate(ownerID)
		cert.IsRevoked = true
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(nil, nil).Once()
		userRepo.On("GetByID", ctx, ownerID).Return(nil, nil).Once()

		svc := export.NewService(certRepo, workRepo, userRepo, exportConfig())

		artifact, err := svc.Export(ctx, ownerID, cert.ID, export.FormatHTML)

		assert.NoError(t, err)
		assert.Contains(t, string(artifact.Data), "REVOKED")
	})

	t.Run("PDF Artifact", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)
		userRepo := new(mocks.UserRepository)

		cert := sampleCertificate(ownerID)
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(&domain.CreativeWork{ID: cert.WorkID, Title: "Neon Skyline"}, nil).Once()
		userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, DisplayName: "Alex Rivera"}, nil).Once()

		svc := export.NewService(certRepo, workRepo, userRepo, exportConfig())

		artifact, err := svc.Export(ctx, ownerID, cert.ID, export.FormatPDF)

		assert.NoError(t, err)
		assert.Equal(t, cert.ID+".pdf", artifact.FileName)
		assert.Equal(t, "application/pdf", artifact.ContentType)
		assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	})

	t.Run("Foreign Certificate Looks Missing", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		cert := sampleCertificate(uuid.New())
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()

		svc := export.NewService(certRepo, new(mocks.WorkRepository), new(mocks.UserRepository), exportConfig())

		artifact, err := svc.Export(ctx, ownerID, cert.ID, export.FormatJSON)

		assert.ErrorIs(t, err, export.ErrCertificateNotFound)
		assert.Nil(t, artifact)
	})
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "html", "pdf"} {
		format, err := export.ParseFormat(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, string(format))
	}

	_, err := export.ParseFormat("docx")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
