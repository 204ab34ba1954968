package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service/anchor"
	"synthetic-rights/internal/service/certificate"
)

type Service interface {
	// Verify resolves ownership for a metadata hash or a CERT- id. "Not
	// registered" is a normal verified:false outcome, never an error.
	Verify(ctx context.Context, hashOrID string) (*domain.VerificationResult, error)

	// VerifyFuzzy delegates to the anchor's near-duplicate index and applies
	// the configured similarity threshold.
	VerifyFuzzy(ctx context.Context, hash string, input domain.FuzzyVerifyInput) (*domain.VerificationResult, error)
}

type service struct {
	workRepo  repository.WorkRepository
	certRepo  repository.CertificateRepository
	chainRepo repository.BlockchainRecordRepository
	userRepo  repository.UserRepository
	anchorSvc anchor.Anchor
	redis     *redis.Client
	cfg       *config.Config
}

func NewService(
	workRepo repository.WorkRepository,
	certRepo repository.CertificateRepository,
	chainRepo repository.BlockchainRecordRepository,
	userRepo repository.UserRepository,
	anchorSvc anchor.Anchor,
	redisClient *redis.Client,
	cfg *config.Config,
) Service {
	return &service{
		workRepo:  workRepo,
		certRepo:  certRepo,
		chainRepo: chainRepo,
		userRepo:  userRepo,
		anchorSvc: anchorSvc,
		redis:     redisClient,
		cfg:       cfg,
	}
}

func (s *service) Verify(ctx context.Context, hashOrID string) (*domain.VerificationResult, error) {
	if strings.HasPrefix(hashOrID, "CERT-") {
		return s.verifyCertificate(ctx, hashOrID)
	}
	return s.verifyExactHash(ctx, hashOrID)
}

func (s *service) verifyCertificate(ctx context.Context, certID string) (*domain.VerificationResult, error) {
	cert, err := s.certRepo.GetByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return &domain.VerificationResult{
			Success:  false,
			Verified: false,
			Message:  "No certificate found with this ID.",
		}, nil
	}

	revoked := cert.IsRevoked
	if !revoked {
		// The ledger may know about a revocation the local row missed, but a
		// locally revoked certificate stays revoked no matter what the chain
		// says.
		if chainRevoked, err := s.anchorSvc.IsRevoked(ctx, certID); err == nil && chainRevoked {
			revoked = true
		}
	}

	expired := cert.ExpiresAt != nil && time.Now().After(*cert.ExpiresAt)

	verified := &domain.VerifiedCertificate{
		ID:        cert.ID,
		IsRevoked: revoked,
		ExpiresAt: cert.ExpiresAt,
		IssuedAt:  cert.Metadata.IssuedAt,
	}
	if cert.Metadata.Revocation != nil {
		verified.RevokedAt = &cert.Metadata.Revocation.RevokedAt
	}

	result := &domain.VerificationResult{
		Success:     true,
		Verified:    !revoked && !expired,
		Certificate: verified,
	}
	if revoked {
		result.Message = "This certificate has been revoked."
	} else if expired {
		result.Message = "This certificate has expired."
	}

	work, err := s.workRepo.GetByID(ctx, cert.WorkID)
	if err != nil {
		return nil, err
	}
	if work != nil {
		vw, err := s.describeWork(ctx, work)
		if err != nil {
			return nil, err
		}
		result.Work = vw
	}

	return result, nil
}

func (s *service) verifyExactHash(ctx context.Context, hash string) (*domain.VerificationResult, error) {
	cacheKey := certificate.VerifyCachePrefix + hash
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var result domain.VerificationResult
			if json.Unmarshal(cached, &result) == nil {
				return &result, nil
			}
		}
	}

	result, err := s.resolveExactHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey, payload, s.cfg.VerifyCacheTTL).Err()
		}
	}
	return result, nil
}

func (s *service) resolveExactHash(ctx context.Context, hash string) (*domain.VerificationResult, error) {
	work, err := s.workRepo.GetByMetadataHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if work != nil {
		vw, err := s.describeWork(ctx, work)
		if err != nil {
			return nil, err
		}
		return &domain.VerificationResult{
			Success:  true,
			Verified: true,
			Work:     vw,
		}, nil
	}

	// Not registered locally; the content may still be anchored by another
	// registry writing to the same chain.
	chainResult, err := s.anchorSvc.VerifyExact(ctx, hash)
	if err == nil && chainResult.Verified {
		return &domain.VerificationResult{
			Success:   true,
			Verified:  true,
			Timestamp: chainResult.Timestamp,
			Message:   "Content is verified on chain but not registered with this service.",
			Work: &domain.VerifiedWork{
				WorkID:        domain.ExternalWorkID,
				MetadataHash:  hash,
				TransactionID: chainResult.TransactionID,
			},
		}, nil
	}

	return &domain.VerificationResult{
		Success:  false,
		Verified: false,
		Message:  "No registered work matches this hash.",
	}, nil
}

func (s *service) VerifyFuzzy(ctx context.Context, hash string, input domain.FuzzyVerifyInput) (*domain.VerificationResult, error) {
	desc := anchor.Descriptor{
		Hash:     hash,
		Metadata: input.Metadata,
	}
	if input.Content != nil {
		desc.Content = *input.Content
	}

	fuzzy, err := s.anchorSvc.VerifyFuzzy(ctx, desc)
	if err != nil {
		return nil, err
	}

	pct := fuzzy.MatchPercentage
	result := &domain.VerificationResult{
		Success:         true,
		Verified:        pct >= s.cfg.FuzzyThreshold,
		MatchPercentage: &pct,
		Timestamp:       fuzzy.Timestamp,
	}
	if !result.Verified {
		result.Success = false
		result.Message = fmt.Sprintf("Best match %.0f%% is below the verification threshold.", pct*100)
	}
	return result, nil
}

// describeWork builds the ownership view for verification responses. Works
// that are not PUBLIC, or whose owner keeps a private profile, get the
// reduced shape: no description, no thumbnails, no owner profile, and never
// any file URLs or email.
func (s *service) describeWork(ctx context.Context, work *domain.CreativeWork) (*domain.VerifiedWork, error) {
	owner, err := s.userRepo.GetByID(ctx, work.OwnerID)
	if err != nil {
		return nil, err
	}

	vw := &domain.VerifiedWork{
		WorkID:             work.ID.String(),
		Title:              work.Title,
		RegistrationStatus: string(work.RegistrationStatus),
	}
	if owner != nil {
		vw.OwnerName = owner.DisplayName
	}
	if work.MetadataHash != nil {
		vw.MetadataHash = *work.MetadataHash
	}

	record, err := s.chainRepo.GetByWorkID(ctx, work.ID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		if work.MetadataHash != nil {
			// A lookup doubles as re-verification: when the chain's answer
			// has drifted from the stored record, the record is refreshed.
			if chain, err := s.anchorSvc.VerifyExact(ctx, *work.MetadataHash); err == nil && chain.Verified != record.Verified {
				if err := s.chainRepo.SetVerified(ctx, work.ID, chain.Verified); err == nil {
					record.Verified = chain.Verified
				}
			}
		}
		vw.TransactionID = &record.TransactionID
		vw.BlockNumber = &record.BlockNumber
		vw.NetworkName = &record.NetworkName
	}

	isPublic := work.Visibility == domain.VisibilityPublic && owner != nil && owner.PublicProfile
	if !isPublic {
		return vw, nil
	}

	vw.Description = work.Description
	category := string(work.WorkType)
	vw.Category = &category
	createdAt := work.CreatedAt
	vw.CreatedAt = &createdAt
	vw.OwnerBio = owner.Bio
	vw.OwnerAvatar = owner.AvatarURL
	if work.ThumbnailPath != nil {
		u := s.publicURL(*work.ThumbnailPath)
		vw.ThumbnailURL = &u
	}

	return vw, nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
