package certificate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service/anchor"
	"synthetic-rights/internal/service/fingerprint"
	"synthetic-rights/internal/service/notification"
	"synthetic-rights/internal/service/signer"
)

var (
	ErrWorkNotFound           = errors.New("work not found")
	ErrNotOwner               = errors.New("caller does not own this work")
	ErrCertificateNotFound    = errors.New("certificate not found")
	ErrAlreadyRevoked         = errors.New("certificate is already revoked")
	ErrEmptyReason            = errors.New("revocation reason is required")
	ErrInvalidCertificateType = errors.New("invalid certificate type")
	ErrAnchoringFailed        = errors.New("blockchain anchoring failed")
)

// VerifyCachePrefix keys cached exact-hash verification results in redis.
// Issuance and revocation drop the affected entry.
const VerifyCachePrefix = "verify:exact:"

type Service interface {
	Issue(ctx context.Context, callerID uuid.UUID, input domain.IssueCertificateInput) (*domain.Certificate, error)
	GetByID(ctx context.Context, callerID uuid.UUID, id string) (*domain.Certificate, error)
	List(ctx context.Context, callerID uuid.UUID, workID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.CertificateWithWork], error)
	Revoke(ctx context.Context, id string, callerID uuid.UUID, reason string) (*domain.Certificate, error)
	HasCertificate(ctx context.Context, workID uuid.UUID) (bool, error)
}

type service struct {
	workRepo  repository.WorkRepository
	certRepo  repository.CertificateRepository
	chainRepo repository.BlockchainRecordRepository
	signerSvc signer.Service
	anchorSvc anchor.Anchor
	notifSvc  notification.Service
	redis     *redis.Client
	cfg       *config.Config
}

func NewService(
	workRepo repository.WorkRepository,
	certRepo repository.CertificateRepository,
	chainRepo repository.BlockchainRecordRepository,
	signerSvc signer.Service,
	anchorSvc anchor.Anchor,
	notifSvc notification.Service,
	redisClient *redis.Client,
	cfg *config.Config,
) Service {
	return &service{
		workRepo:  workRepo,
		certRepo:  certRepo,
		chainRepo: chainRepo,
		signerSvc: signerSvc,
		anchorSvc: anchorSvc,
		notifSvc:  notifSvc,
		redis:     redisClient,
		cfg:       cfg,
	}
}

// Issue runs the full issuance pipeline: ownership check, optional anchoring,
// metadata snapshot, signing, persistence, owner notification. The
// certificate row is the last write; any earlier failure leaves nothing
// behind.
func (s *service) Issue(ctx context.Context, callerID uuid.UUID, input domain.IssueCertificateInput) (*domain.Certificate, error) {
	if !input.CertificateType.Valid() {
		return nil, ErrInvalidCertificateType
	}

	work, err := s.workRepo.GetByID(ctx, input.WorkID)
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, ErrWorkNotFound
	}
	if work.OwnerID != callerID {
		return nil, ErrNotOwner
	}

	record, err := s.chainRepo.GetByWorkID(ctx, work.ID)
	if err != nil {
		return nil, err
	}

	if input.RegisterOnChain && !work.Anchored(record) {
		record, err = s.anchorWork(ctx, work)
		if err != nil {
			return nil, err
		}

		// The anchoring step mutated the work row; snapshot the latest state.
		work, err = s.workRepo.GetByID(ctx, input.WorkID)
		if err != nil {
			return nil, err
		}
		if work == nil {
			return nil, ErrWorkNotFound
		}
	}

	if work.MetadataHash == nil {
		return nil, fmt.Errorf("work %s has no metadata hash", work.ID)
	}

	now := time.Now().UTC()
	certID := "CERT-" + ulid.Make().String()

	meta := domain.CertificateMetadata{
		Version:       domain.CertificateMetadataVersion,
		CertificateID: certID,
		WorkID:        work.ID,
		MetadataHash:  *work.MetadataHash,
		RegisteredAt:  work.CreatedAt,
		IssuedAt:      now,
	}
	if record != nil {
		meta.RegisteredAt = record.RegisteredAt
		meta.TransactionID = &record.TransactionID
		meta.BlockNumber = &record.BlockNumber
		meta.NetworkName = &record.NetworkName
	}

	var expiresAt *time.Time
	if input.CertificateType == domain.CertificateStandard {
		t := now.Add(domain.StandardCertificateTTL)
		expiresAt = &t
	}
	meta.ExpiresAt = expiresAt

	signature, err := s.signerSvc.Sign(meta)
	if err != nil {
		return nil, err
	}

	cert := &domain.Certificate{
		ID:        certID,
		WorkID:    work.ID,
		OwnerID:   work.OwnerID,
		Type:      input.CertificateType,
		Metadata:  meta,
		Signature: signature,
		PublicURL: fmt.Sprintf("%s/api/v1/verify/%s", s.cfg.PublicBaseURL, certID),
		ExpiresAt: expiresAt,
	}

	if err := s.certRepo.Create(ctx, cert); err != nil {
		return nil, err
	}

	s.invalidateVerifyCache(ctx, *work.MetadataHash)

	title := work.Title
	go func() {
		if err := s.notifSvc.NotifyCertificateIssued(context.Background(), cert, title); err != nil {
			log.Printf("Failed to notify certificate issuance %s: %v", cert.ID, err)
		}
	}()

	return cert, nil
}

func (s *service) GetByID(ctx context.Context, callerID uuid.UUID, id string) (*domain.Certificate, error) {
	cert, err := s.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}
	if cert.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return cert, nil
}

func (s *service) List(ctx context.Context, callerID uuid.UUID, workID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.CertificateWithWork], error) {
	certs, total, err := s.certRepo.ListByOwner(ctx, callerID, workID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.CertificateWithWork]{}, err
	}
	return domain.NewPaginatedResponse(certs, params.Page, params.Limit, total), nil
}

// Revoke marks a certificate revoked and appends the revocation record into
// its metadata. The original metadata and signature are retained; there is
// no un-revoke.
func (s *service) Revoke(ctx context.Context, id string, callerID uuid.UUID, reason string) (*domain.Certificate, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	cert, err := s.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}

	if cert.OwnerID != callerID {
		work, err := s.workRepo.GetByID(ctx, cert.WorkID)
		if err != nil {
			return nil, err
		}
		if work == nil || work.OwnerID != callerID {
			return nil, ErrNotOwner
		}
	}

	if cert.IsRevoked {
		return nil, ErrAlreadyRevoked
	}

	cert.IsRevoked = true
	cert.Metadata.Revocation = &domain.RevocationRecord{
		RevokedAt: time.Now().UTC(),
		RevokedBy: callerID,
		Reason:    reason,
	}

	if err := s.certRepo.Revoke(ctx, cert); err != nil {
		// The repository only touches rows still marked active, so a miss
		// means another revocation won the race.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyRevoked
		}
		return nil, err
	}

	s.invalidateVerifyCache(ctx, cert.Metadata.MetadataHash)

	go func() {
		if err := s.notifSvc.NotifyCertificateRevoked(context.Background(), cert, reason); err != nil {
			log.Printf("Failed to notify certificate revocation %s: %v", cert.ID, err)
		}
	}()

	return cert, nil
}

func (s *service) HasCertificate(ctx context.Context, workID uuid.UUID) (bool, error) {
	count, err := s.certRepo.CountByWork(ctx, workID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// anchorWork registers the work's hash on chain and persists the resulting
// BlockchainRecord. Anchoring failure aborts issuance entirely.
func (s *service) anchorWork(ctx context.Context, work *domain.CreativeWork) (*domain.BlockchainRecord, error) {
	hash := ""
	if work.MetadataHash != nil {
		hash = *work.MetadataHash
	} else {
		description := ""
		if work.Description != nil {
			description = *work.Description
		}
		hash = fingerprint.Compute(fingerprint.Attributes{
			Title:       work.Title,
			Description: description,
			WorkType:    work.WorkType,
		})
	}

	anchorCtx, cancel := context.WithTimeout(ctx, s.cfg.AnchorTimeout)
	defer cancel()

	result, err := s.anchorSvc.Register(anchorCtx, work.ID, hash, work.OwnerID)
	if err != nil {
		return nil, errors.Join(ErrAnchoringFailed, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrAnchoringFailed, result.Error)
	}

	record := &domain.BlockchainRecord{
		ID:            uuid.New(),
		WorkID:        work.ID,
		TransactionID: result.TransactionID,
		BlockNumber:   result.BlockNumber,
		NetworkName:   s.anchorSvc.NetworkName(),
		RegisteredAt:  time.Now().UTC(),
		Verified:      true,
	}
	if err := s.chainRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.workRepo.SetAnchored(ctx, work.ID, hash); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *service) invalidateVerifyCache(ctx context.Context, hash string) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, VerifyCachePrefix+hash).Err()
	}
}
