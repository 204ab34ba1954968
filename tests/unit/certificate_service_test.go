package unit_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/service/anchor"
	"synthetic-rights/internal/service/certificate"
	"synthetic-rights/internal/service/signer"
	"synthetic-rights/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		PublicBaseURL:    "http://localhost:8080",
		AnchorNetwork:    "polygon-amoy",
		AnchorTimeout:    5 * time.Second,
		FuzzyThreshold:   0.8,
		VerifyCacheTTL:   5 * time.Minute,
		BatchConcurrency: 5,
	}
}

func newSigner(t *testing.T) signer.Service {
	t.Helper()
	svc, err := signer.NewService("")
	assert.NoError(t, err)
	return svc
}

func stringPtr(s string) *string {
	return &s
}

func anchoredWork(ownerID uuid.UUID) *domain.CreativeWork {
	return &domain.CreativeWork{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Title:              "Neon Skyline",
		WorkType:           domain.WorkTypeImage,
		RegistrationStatus: domain.RegistrationRegistered,
		Visibility:         domain.VisibilityPrivate,
		MetadataHash:       stringPtr("a3f8c2d1e0b94765a3f8c2d1e0b94765a3f8c2d1e0b94765a3f8c2d1e0b94765"),
		CreatedAt:          time.Now().UTC().Add(-24 * time.Hour),
	}
}

func TestCertificateService_Issue(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	signerSvc := newSigner(t)
	sim := anchor.NewSim("polygon-amoy")

	t.Run("Standard Certificate Expires In A Year", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		certRepo := new(mocks.CertificateRepository)
		chainRepo := new(mocks.BlockchainRecordRepository)
		notifSvc := new(mocks.NotificationService)

		work := anchoredWork(ownerID)
		record := &domain.BlockchainRecord{
			ID:            uuid.New(),
			WorkID:        work.ID,
			TransactionID: "0xabc123",
			BlockNumber:   1_000_042,
			NetworkName:   "polygon-amoy",
			RegisteredAt:  work.CreatedAt,
			Verified:      true,
		}

		workRepo.On("GetByID", ctx, work.ID).Return(work, nil).Once()
		chainRepo.On("GetByWorkID", ctx, work.ID).Return(record, nil).Once()
		certRepo.On("Create", ctx, mock.AnythingOfType("*domain.Certificate")).Return(nil).Once()
		notifSvc.On("NotifyCertificateIssued", mock.Anything, mock.Anything, work.Title).Return(nil).Maybe()

		svc := certificate.NewService(workRepo, certRepo, chainRepo, signerSvc, sim, notifSvc, nil, testConfig())

		cert, err := svc.Issue(ctx, ownerID, domain.IssueCertificateInput{
			WorkID:          work.ID,
			CertificateType: domain.CertificateStandard,
		})

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(cert.ID, "CERT-"))
		assert.Equal(t, ownerID, cert.OwnerID)
		assert.NotNil(t, cert.ExpiresAt)
		assert.WithinDuration(t, time.Now().UTC().Add(domain.StandardCertificateTTL), *cert.ExpiresAt, time.Minute)
		assert.Equal(t, "0xabc123", *cert.Metadata.TransactionID)
		assert.Equal(t, record.RegisteredAt, cert.Metadata.RegisteredAt)
		assert.True(t, signerSvc.Verify(cert.Metadata, cert.Signature))
		assert.Contains(t, cert.PublicURL, "/api/v1/verify/"+cert.ID)

		workRepo.AssertExpectations(t)
		certRepo.AssertExpectations(t)
	})

	t.Run("Premium Certificate Never Expires", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		certRepo := new(mocks.CertificateRepository)
		chainRepo := new(mocks.BlockchainRecordRepository)
		notifSvc := new(mocks.NotificationService)

		work := anchoredWork(ownerID)
		workRepo.On("GetByID", ctx, work.ID).Return(work, nil).Once()
		chainRepo.On("GetByWorkID", ctx, work.ID).Return(nil, nil).Once()
		certRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		notifSvc.On("NotifyCertificateIssued", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		svc := certificate.NewService(workRepo, certRepo, chainRepo, signerSvc, sim, notifSvc, nil, testConfig())

		cert, err := svc.Issue(ctx, ownerID, domain.IssueCertificateInput{
			WorkID:          work.ID,
			CertificateType: domain.CertificatePremium,
		})

		assert.NoError(t, err)
		assert.Nil(t, cert.ExpiresAt)
		assert.Nil(t, cert.Metadata.ExpiresAt)
		// Work was created before anchoring existed for it; issuance falls
		// back to the work's own registration time.
		assert.Equal(t, work.CreatedAt, cert.Metadata.RegisteredAt)
	})

	t.Run("Anchors On Demand", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		certRepo := new(mocks.CertificateRepository)
		chainRepo := new(mocks.BlockchainRecordRepository)
		notifSvc := new(mocks.NotificationService)

		work := anchoredWork(ownerID)
		work.RegistrationStatus = domain.RegistrationPending
		work.MetadataHash = nil

		anchored := anchoredWork(ownerID)
		anchored.ID = work.ID

		workRepo.On("GetByID", ctx, work.ID).Return(work, nil).Once()
		chainRepo.On("GetByWorkID", ctx, work.ID).Return(nil, nil).Once()
		chainRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.BlockchainRecord) bool {
			return r.WorkID == work.ID && strings.HasPrefix(r.TransactionID, "0x") && r.Verified
		})).Return(nil).Once()
		workRepo.On("SetAnchored", ctx, work.ID, mock.AnythingOfType("string")).Return(nil).Once()
		workRepo.On("GetByID", ctx, work.ID).Return(anchored, nil).Once()
		certRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		notifSvc.On("NotifyCertificateIssued", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		svc := certificate.NewService(workRepo, certRepo, chainRepo, signerSvc, sim, notifSvc, nil, testConfig())

		cert, err := svc.Issue(ctx, ownerID, domain.IssueCertificateInput{
			WorkID:          work.ID,
			CertificateType: domain.CertificateEnhanced,
			RegisterOnChain: true,
		})

		assert.NoError(t, err)
		assert.NotNil(t, cert.Metadata.TransactionID)
		assert.True(t, strings.HasPrefix(*cert.Metadata.TransactionID, "0x"))

		workRepo.AssertExpectations(t)
		chainRepo.AssertExpectations(t)
	})

	t.Run("Invalid Type", func(t *testing.T) {
		svc := certificate.NewService(new(mocks.WorkRepository), new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		cert, err := svc.Issue(ctx, ownerID, domain.IssueCertificateInput{
			WorkID:          uuid.New(),
			CertificateType: "platinum",
		})

		assert.ErrorIs(t, err, certificate.ErrInvalidCertificateType)
		assert.Nil(t, cert)
	})

	t.Run("Work Not Found", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		workRepo.On("GetByID", ctx, mock.Anything).Return(nil, nil).Once()

		svc := certificate.NewService(workRepo, new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		cert, err := svc.Issue(ctx, ownerID, domain.IssueCertificateInput{
			WorkID:          uuid.New(),
			CertificateType: domain.CertificateStandard,
		})

		assert.ErrorIs(t, err, certificate.ErrWorkNotFound)
		assert.Nil(t, cert)
	})

	t.Run("Not Owner", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		work := anchoredWork(uuid.New())
		workRepo.On("GetByID", ctx, work.ID).Return(work, nil).Once()

		svc := certificate.NewService(workRepo, new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		cert, err := svc.Issue(ctx, ownerID, domain.IssueCertificateInput{
			WorkID:          work.ID,
			CertificateType: domain.CertificateStandard,
		})

		assert.ErrorIs(t, err, certificate.ErrNotOwner)
		assert.Nil(t, cert)
	})
}

func TestCertificateService_Revoke(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	signerSvc := newSigner(t)
	sim := anchor.NewSim("polygon-amoy")

	issuedCert := func() *domain.Certificate {
		meta := domain.CertificateMetadata{
			Version:       domain.CertificateMetadataVersion,
			CertificateID: "CERT-01JTESTREVOKE000000000000",
			WorkID:        uuid.New(),
			MetadataHash:  "deadbeef",
			IssuedAt:      time.Now().UTC().Add(-time.Hour),
		}
		return &domain.Certificate{
			ID:       meta.CertificateID,
			WorkID:   meta.WorkID,
			OwnerID:  ownerID,
			Type:     domain.CertificatePremium,
			Metadata: meta,
		}
	}

	t.Run("Success", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		notifSvc := new(mocks.NotificationService)
		cert := issuedCert()
		sig, err := signerSvc.Sign(cert.Metadata)
		assert.NoError(t, err)
		cert.Signature = sig

		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		certRepo.On("Revoke", ctx, mock.MatchedBy(func(c *domain.Certificate) bool {
			return c.IsRevoked && c.Metadata.Revocation != nil && c.Metadata.Revocation.Reason == "Issued in error"
		})).Return(nil).Once()
		notifSvc.On("NotifyCertificateRevoked", mock.Anything, mock.Anything, "Issued in error").Return(nil).Maybe()

		svc := certificate.NewService(new(mocks.WorkRepository), certRepo, new(mocks.BlockchainRecordRepository), signerSvc, sim, notifSvc, nil, testConfig())

		revoked, err := svc.Revoke(ctx, cert.ID, ownerID, "  Issued in error  ")

		assert.NoError(t, err)
		assert.True(t, revoked.IsRevoked)
		assert.Equal(t, ownerID, revoked.Metadata.Revocation.RevokedBy)
		// The revocation record lives outside the signed payload, so the
		// original signature still verifies.
		assert.True(t, signerSvc.Verify(revoked.Metadata, revoked.Signature))

		certRepo.AssertExpectations(t)
	})

	t.Run("Empty Reason", func(t *testing.T) {
		svc := certificate.NewService(new(mocks.WorkRepository), new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		revoked, err := svc.Revoke(ctx, "CERT-X", ownerID, "   ")

		assert.ErrorIs(t, err, certificate.ErrEmptyReason)
		assert.Nil(t, revoked)
	})

	t.Run("Already Revoked", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		cert := issuedCert()
		cert.IsRevoked = true
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()

		svc := certificate.NewService(new(mocks.WorkRepository), certRepo, new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		revoked, err := svc.Revoke(ctx, cert.ID, ownerID, "duplicate")

		assert.ErrorIs(t, err, certificate.ErrAlreadyRevoked)
		assert.Nil(t, revoked)
	})

	t.Run("Lost Revocation Race Reports Conflict", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		cert := issuedCert()
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		// Another revocation landed between the read and the write; the
		// guarded UPDATE matches no row.
		certRepo.On("Revoke", ctx, mock.Anything).Return(sql.ErrNoRows).Once()

		svc := certificate.NewService(new(mocks.WorkRepository), certRepo, new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		revoked, err := svc.Revoke(ctx, cert.ID, ownerID, "duplicate")

		assert.ErrorIs(t, err, certificate.ErrAlreadyRevoked)
		assert.Nil(t, revoked)
		certRepo.AssertExpectations(t)
	})

	t.Run("Not Owner", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)
		cert := issuedCert()
		stranger := uuid.New()

		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(nil, nil).Once()

		svc := certificate.NewService(workRepo, certRepo, new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		revoked, err := svc.Revoke(ctx, cert.ID, stranger, "not mine")

		assert.ErrorIs(t, err, certificate.ErrNotOwner)
		assert.Nil(t, revoked)
	})

	t.Run("Not Found", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		certRepo.On("GetByID", ctx, "CERT-MISSING").Return(nil, nil).Once()

		svc := certificate.NewService(new(mocks.WorkRepository), certRepo, new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		revoked, err := svc.Revoke(ctx, "CERT-MISSING", ownerID, "gone")

		assert.ErrorIs(t, err, certificate.ErrCertificateNotFound)
		assert.Nil(t, revoked)
	})

	t.Run("Repo Error", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		certRepo.On("GetByID", ctx, "CERT-X").Return(nil, errors.New("db error")).Once()

		svc := certificate.NewService(new(mocks.WorkRepository), certRepo, new(mocks.BlockchainRecordRepository), signerSvc, sim, new(mocks.NotificationService), nil, testConfig())

		revoked, err := svc.Revoke(ctx, "CERT-X", ownerID, "reason")

		assert.Error(t, err)
		assert.Nil(t, revoked)
	})
}
