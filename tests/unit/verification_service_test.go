package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/service/anchor"
	"synthetic-rights/internal/service/verification"
	"synthetic-rights/tests/mocks"
)

func newVerificationService(
	workRepo *mocks.WorkRepository,
	certRepo *mocks.CertificateRepository,
	chainRepo *mocks.BlockchainRecordRepository,
	userRepo *mocks.UserRepository,
	sim *anchor.Sim,
) verification.Service {
	return verification.NewService(workRepo, certRepo, chainRepo, userRepo, sim, nil, testConfig())
}

func TestVerificationService_VerifyHash(t *testing.T) {
	ctx := context.Background()
	sim := anchor.NewSim("polygon-amoy")
	hash := "b1946ac92492d2347c6235b4d2611184b1946ac92492d2347c6235b4d2611184"

	t.Run("Unknown Hash", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		workRepo.On("GetByMetadataHash", ctx, hash).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.Verify(ctx, hash)

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.False(t, result.Verified)
		assert.Equal(t, "No registered work matches this hash.", result.Message)
		assert.Nil(t, result.Work)
	})

	t.Run("Private Work Returns Reduced Fields", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		chainRepo := new(mocks.BlockchainRecordRepository)
		userRepo := new(mocks.UserRepository)

		ownerID := uuid.New()
		desc := "A private commission"
		thumb := "works/2026/01/thumb.jpg"
		work := &domain.CreativeWork{
			ID:                 uuid.New(),
			OwnerID:            ownerID,
			Title:              "Hidden Garden",
			WorkType:           domain.WorkTypeImage,
			RegistrationStatus: domain.RegistrationRegistered,
			Visibility:         domain.VisibilityPrivate,
			Description:        &desc,
			ThumbnailPath:      &thumb,
			MetadataHash:       &hash,
		}
		owner := &domain.User{
			ID:            ownerID,
			Email:         "owner@example.com",
			DisplayName:   "Alex Rivera",
			PublicProfile: true,
		}

		workRepo.On("GetByMetadataHash", ctx, hash).Return(work, nil).Once()
		userRepo.On("GetByID", ctx, ownerID).Return(owner, nil).Once()
		chainRepo.On("GetByWorkID", ctx, work.ID).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, new(mocks.CertificateRepository), chainRepo, userRepo, sim)

		result, err := svc.Verify(ctx, hash)

		assert.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, "Hidden Garden", result.Work.Title)
		assert.Equal(t, "Alex Rivera", result.Work.OwnerName)
		assert.Nil(t, result.Work.Description)
		assert.Nil(t, result.Work.ThumbnailURL)
		assert.Nil(t, result.Work.OwnerBio)
	})

	t.Run("Public Work Returns Full Fields", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		chainRepo := new(mocks.BlockchainRecordRepository)
		userRepo := new(mocks.UserRepository)

		ownerID := uuid.New()
		desc := "Open gallery piece"
		bio := "Digital artist"
		work := &domain.CreativeWork{
			ID:                 uuid.New(),
			OwnerID:            ownerID,
			Title:              "Open Field",
			WorkType:           domain.WorkTypeImage,
			RegistrationStatus: domain.RegistrationRegistered,
			Visibility:         domain.VisibilityPublic,
			Description:        &desc,
			MetadataHash:       &hash,
			CreatedAt:          time.Now().UTC(),
		}
		owner := &domain.User{ID: ownerID, DisplayName: "Sam Ortiz", Bio: &bio, PublicProfile: true}
		record := &domain.BlockchainRecord{
			WorkID:        work.ID,
			TransactionID: "0xfeed01",
			BlockNumber:   1_000_777,
			NetworkName:   "polygon-amoy",
		}

		workRepo.On("GetByMetadataHash", ctx, hash).Return(work, nil).Once()
		userRepo.On("GetByID", ctx, ownerID).Return(owner, nil).Once()
		chainRepo.On("GetByWorkID", ctx, work.ID).Return(record, nil).Once()

		svc := newVerificationService(workRepo, new(mocks.CertificateRepository), chainRepo, userRepo, sim)

		result, err := svc.Verify(ctx, hash)

		assert.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, &desc, result.Work.Description)
		assert.Equal(t, &bio, result.Work.OwnerBio)
		assert.Equal(t, "0xfeed01", *result.Work.TransactionID)
		assert.NotNil(t, result.Work.Category)
		assert.Equal(t, "image", *result.Work.Category)
	})

	t.Run("Lookup Refreshes Stale Ledger Confirmation", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		chainRepo := new(mocks.BlockchainRecordRepository)
		userRepo := new(mocks.UserRepository)
		liveSim := anchor.NewSim("polygon-amoy")

		ownerID := uuid.New()
		liveHash := "e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5"
		work := &domain.CreativeWork{
			ID:                 uuid.New(),
			OwnerID:            ownerID,
			Title:              "Tide Chart",
			WorkType:           domain.WorkTypeImage,
			RegistrationStatus: domain.RegistrationRegistered,
			Visibility:         domain.VisibilityPrivate,
			MetadataHash:       &liveHash,
		}
		_, err := liveSim.Register(ctx, work.ID, liveHash, ownerID)
		assert.NoError(t, err)

		// The stored record predates chain confirmation.
		record := &domain.BlockchainRecord{
			WorkID:        work.ID,
			TransactionID: "0xfeed02",
			BlockNumber:   1_000_778,
			NetworkName:   "polygon-amoy",
			Verified:      false,
		}

		workRepo.On("GetByMetadataHash", ctx, liveHash).Return(work, nil).Once()
		userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, DisplayName: "Sam Ortiz"}, nil).Once()
		chainRepo.On("GetByWorkID", ctx, work.ID).Return(record, nil).Once()
		chainRepo.On("SetVerified", ctx, work.ID, true).Return(nil).Once()

		svc := newVerificationService(workRepo, new(mocks.CertificateRepository), chainRepo, userRepo, liveSim)

		result, err := svc.Verify(ctx, liveHash)

		assert.NoError(t, err)
		assert.True(t, result.Verified)
		chainRepo.AssertExpectations(t)
	})

	t.Run("External Chain Match", func(t *testing.T) {
		workRepo := new(mocks.WorkRepository)
		extSim := anchor.NewSim("polygon-amoy")

		extHash := "c0ffee0000000000c0ffee0000000000c0ffee0000000000c0ffee0000000000"
		_, err := extSim.Register(ctx, uuid.New(), extHash, uuid.New())
		assert.NoError(t, err)

		workRepo.On("GetByMetadataHash", ctx, extHash).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), extSim)

		result, err := svc.Verify(ctx, extHash)

		assert.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, domain.ExternalWorkID, result.Work.WorkID)
		assert.NotNil(t, result.Work.TransactionID)
	})
}

func TestVerificationService_VerifyCertificate(t *testing.T) {
	ctx := context.Background()
	sim := anchor.NewSim("polygon-amoy")

	baseCert := func() *domain.Certificate {
		return &domain.Certificate{
			ID:      "CERT-01JVERIFY0000000000000000",
			WorkID:  uuid.New(),
			OwnerID: uuid.New(),
			Type:    domain.CertificatePremium,
			Metadata: domain.CertificateMetadata{
				Version:       domain.CertificateMetadataVersion,
				CertificateID: "CERT-01JVERIFY0000000000000000",
				MetadataHash:  "deadbeef",
				IssuedAt:      time.Now().UTC().Add(-time.Hour),
			},
		}
	}

	t.Run("Valid Certificate", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)

		cert := baseCert()
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, certRepo, new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.Verify(ctx, cert.ID)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.Verified)
		assert.Empty(t, result.Message)
		assert.False(t, result.Certificate.IsRevoked)
	})

	t.Run("Revoked Certificate", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)

		cert := baseCert()
		cert.IsRevoked = true
		revokedAt := time.Now().UTC().Add(-time.Minute)
		cert.Metadata.Revocation = &domain.RevocationRecord{
			RevokedAt: revokedAt,
			RevokedBy: cert.OwnerID,
			Reason:    "compromised",
		}
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, certRepo, new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.Verify(ctx, cert.ID)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.Verified)
		assert.Equal(t, "This certificate has been revoked.", result.Message)
		assert.Equal(t, &revokedAt, result.Certificate.RevokedAt)
	})

	t.Run("Chain Revocation Wins Over Local Row", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)
		revokedSim := anchor.NewSim("polygon-amoy")

		cert := baseCert()
		revokedSim.MarkRevoked(cert.ID)
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, certRepo, new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), revokedSim)

		result, err := svc.Verify(ctx, cert.ID)

		assert.NoError(t, err)
		assert.False(t, result.Verified)
		assert.True(t, result.Certificate.IsRevoked)
	})

	t.Run("Expired Certificate", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		workRepo := new(mocks.WorkRepository)

		cert := baseCert()
		expired := time.Now().UTC().Add(-time.Hour)
		cert.ExpiresAt = &expired
		certRepo.On("GetByID", ctx, cert.ID).Return(cert, nil).Once()
		workRepo.On("GetByID", ctx, cert.WorkID).Return(nil, nil).Once()

		svc := newVerificationService(workRepo, certRepo, new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.Verify(ctx, cert.ID)

		assert.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, "This certificate has expired.", result.Message)
	})

	t.Run("Unknown Certificate", func(t *testing.T) {
		certRepo := new(mocks.CertificateRepository)
		certRepo.On("GetByID", ctx, "CERT-MISSING").Return(nil, nil).Once()

		svc := newVerificationService(new(mocks.WorkRepository), certRepo, new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.Verify(ctx, "CERT-MISSING")

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "No certificate found with this ID.", result.Message)
	})
}

func TestVerificationService_VerifyFuzzy(t *testing.T) {
	ctx := context.Background()

	t.Run("Close Match Verifies", func(t *testing.T) {
		sim := anchor.NewSim("polygon-amoy")
		hash := "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"
		_, err := sim.Register(ctx, uuid.New(), hash, uuid.New())
		assert.NoError(t, err)

		svc := newVerificationService(new(mocks.WorkRepository), new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.VerifyFuzzy(ctx, hash, domain.FuzzyVerifyInput{})

		assert.NoError(t, err)
		assert.True(t, result.Verified)
		assert.NotNil(t, result.MatchPercentage)
		assert.InDelta(t, 1.0, *result.MatchPercentage, 0.001)
	})

	t.Run("Weak Match Is Rejected", func(t *testing.T) {
		sim := anchor.NewSim("polygon-amoy")
		_, err := sim.Register(ctx, uuid.New(), "1111111111111111111111111111111111111111111111111111111111111111", uuid.New())
		assert.NoError(t, err)

		svc := newVerificationService(new(mocks.WorkRepository), new(mocks.CertificateRepository), new(mocks.BlockchainRecordRepository), new(mocks.UserRepository), sim)

		result, err := svc.VerifyFuzzy(ctx, "9999999999999999999999999999999999999999999999999999999999999999", domain.FuzzyVerifyInput{})

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.False(t, result.Verified)
		assert.Contains(t, result.Message, "below the verification threshold")
	})
}
