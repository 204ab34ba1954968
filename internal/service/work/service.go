package work

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service/certificate"
	"synthetic-rights/internal/service/fingerprint"
)

var (
	ErrWorkNotFound     = errors.New("work not found")
	ErrNotWorkOwner     = errors.New("caller does not own this work")
	ErrInvalidWorkType  = errors.New("invalid work type")
	ErrAttributesFrozen = errors.New("registered works cannot change fingerprinted attributes")
)

type UploadedAsset struct {
	FileName    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

type Service interface {
	Register(ctx context.Context, ownerID uuid.UUID, input domain.RegisterWorkInput, asset *UploadedAsset) (*domain.CreativeWork, error)
	GetByID(ctx context.Context, callerID, id uuid.UUID) (*domain.CreativeWork, error)
	List(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.CreativeWork], error)
	Update(ctx context.Context, callerID, id uuid.UUID, input domain.UpdateWorkInput) (*domain.CreativeWork, error)
}

type service struct {
	workRepo    repository.WorkRepository
	minioClient *minio.Client
	redisClient *redis.Client
	cfg         *config.Config
}

func NewService(workRepo repository.WorkRepository, minioClient *minio.Client, redisClient *redis.Client, cfg *config.Config) Service {
	return &service{
		workRepo:    workRepo,
		minioClient: minioClient,
		redisClient: redisClient,
		cfg:         cfg,
	}
}

func (s *service) Register(ctx context.Context, ownerID uuid.UUID, input domain.RegisterWorkInput, asset *UploadedAsset) (*domain.CreativeWork, error) {
	if !input.WorkType.Valid() {
		return nil, ErrInvalidWorkType
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("invalid visibility %q", visibility)
	}

	detectionEnabled := true
	if input.DetectionEnabled != nil {
		detectionEnabled = *input.DetectionEnabled
	}
	optOut := false
	if input.AITrainingOptOut != nil {
		optOut = *input.AITrainingOptOut
	}

	workID := uuid.New()
	var storagePath *string
	var contentDigest string

	if asset != nil && s.minioClient != nil {
		path := fmt.Sprintf("works/%s/%s", time.Now().Format("2006/01"), workID.String())

		// Hash the asset while it streams into storage so the fingerprint
		// covers the exact persisted bytes.
		hasher := sha256.New()
		tee := io.TeeReader(asset.Reader, hasher)

		_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, path, tee, asset.Size, minio.PutObjectOptions{
			ContentType: asset.ContentType,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store asset: %w", err)
		}
		storagePath = &path
		contentDigest = hex.EncodeToString(hasher.Sum(nil))
	}

	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	hash := fingerprint.Compute(fingerprint.Attributes{
		Title:         input.Title,
		Description:   description,
		WorkType:      input.WorkType,
		ContentDigest: contentDigest,
	})

	work := &domain.CreativeWork{
		ID:                 workID,
		OwnerID:            ownerID,
		Title:              input.Title,
		Description:        input.Description,
		WorkType:           input.WorkType,
		MetadataHash:       &hash,
		ContentDigest:      digestPtr(contentDigest),
		RegistrationStatus: domain.RegistrationPending,
		DetectionEnabled:   detectionEnabled,
		AITrainingOptOut:   optOut,
		Visibility:         visibility,
		StoragePath:        storagePath,
	}

	if err := s.workRepo.Create(ctx, work); err != nil {
		if storagePath != nil {
			_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, *storagePath, minio.RemoveObjectOptions{})
		}
		return nil, err
	}

	s.fillURLs(work)
	return work, nil
}

func (s *service) GetByID(ctx context.Context, callerID, id uuid.UUID) (*domain.CreativeWork, error) {
	work, err := s.workRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, ErrWorkNotFound
	}
	if work.OwnerID != callerID {
		return nil, ErrNotWorkOwner
	}

	s.fillURLs(work)
	return work, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.CreativeWork], error) {
	works, total, err := s.workRepo.ListByOwner(ctx, ownerID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.CreativeWork]{}, err
	}

	for i := range works {
		s.fillURLs(&works[i])
	}

	return domain.NewPaginatedResponse(works, params.Page, params.Limit, total), nil
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, input domain.UpdateWorkInput) (*domain.CreativeWork, error) {
	work, err := s.workRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, ErrWorkNotFound
	}
	if work.OwnerID != callerID {
		return nil, ErrNotWorkOwner
	}

	oldHash := ""
	if work.MetadataHash != nil {
		oldHash = *work.MetadataHash
	}

	if input.Description != nil && !sameDescription(work.Description, input.Description) {
		// The description feeds the fingerprint. Once a work is anchored the
		// recorded hash must keep matching the chain, so edits are refused;
		// before anchoring the fingerprint is simply recomputed.
		if work.RegistrationStatus == domain.RegistrationRegistered {
			return nil, ErrAttributesFrozen
		}
		work.Description = input.Description

		digest := ""
		if work.ContentDigest != nil {
			digest = *work.ContentDigest
		}
		description := ""
		if work.Description != nil {
			description = *work.Description
		}
		hash := fingerprint.Compute(fingerprint.Attributes{
			Title:         work.Title,
			Description:   description,
			WorkType:      work.WorkType,
			ContentDigest: digest,
		})
		work.MetadataHash = &hash
	}
	if input.Visibility != nil {
		if !input.Visibility.Valid() {
			return nil, fmt.Errorf("invalid visibility %q", *input.Visibility)
		}
		work.Visibility = *input.Visibility
	}
	if input.DetectionEnabled != nil {
		work.DetectionEnabled = *input.DetectionEnabled
	}
	if input.AITrainingOptOut != nil {
		work.AITrainingOptOut = *input.AITrainingOptOut
	}

	if err := s.workRepo.Update(ctx, work); err != nil {
		return nil, err
	}

	// Any mutation can change what a verifier is allowed to see, so cached
	// lookups for both the previous and the current fingerprint are dropped.
	s.invalidateVerifyCache(ctx, oldHash)
	if work.MetadataHash != nil && *work.MetadataHash != oldHash {
		s.invalidateVerifyCache(ctx, *work.MetadataHash)
	}

	s.fillURLs(work)
	return work, nil
}

func (s *service) invalidateVerifyCache(ctx context.Context, hash string) {
	if s.redisClient == nil || hash == "" {
		return
	}
	_ = s.redisClient.Del(ctx, certificate.VerifyCachePrefix+hash).Err()
}

func sameDescription(current, next *string) bool {
	if current == nil {
		return next == nil || *next == ""
	}
	return next != nil && *current == *next
}

func digestPtr(digest string) *string {
	if digest == "" {
		return nil
	}
	return &digest
}

func (s *service) fillURLs(work *domain.CreativeWork) {
	if work.StoragePath != nil {
		u := s.publicURL(*work.StoragePath)
		work.FileURL = &u
	}
	if work.ThumbnailPath != nil {
		u := s.publicURL(*work.ThumbnailPath)
		work.ThumbnailURL = &u
	}
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
