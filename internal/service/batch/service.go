package batch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service/certificate"
	"synthetic-rights/internal/service/export"
)

var (
	ErrEmptyBatch    = errors.New("batch contains no work ids")
	ErrBatchTooLarge = fmt.Errorf("batch exceeds the %d work limit", domain.MaxBatchSize)
	ErrForeignWork   = errors.New("one or more works were not found for this account")
)

// AlreadyCertifiedMessage is the per-item skip reason for works that
// already carry at least one certificate.
const AlreadyCertifiedMessage = "Work already has a certificate"

type Service interface {
	IssueBatch(ctx context.Context, ownerID uuid.UUID, input domain.BatchIssueInput) (*domain.BatchReport, error)
	IssueBatchArchive(ctx context.Context, ownerID uuid.UUID, input domain.BatchIssueInput, format export.Format) (*domain.BatchArchive, error)
}

type service struct {
	workRepo  repository.WorkRepository
	certSvc   certificate.Service
	exportSvc export.Service
	cfg       *config.Config
}

func NewService(workRepo repository.WorkRepository, certSvc certificate.Service, exportSvc export.Service, cfg *config.Config) Service {
	return &service{
		workRepo:  workRepo,
		certSvc:   certSvc,
		exportSvc: exportSvc,
		cfg:       cfg,
	}
}

// IssueBatch fans certificate issuance out over the given works. Ownership
// is checked up front across the whole set; per-item failures afterwards are
// collected into the report and never abort the siblings.
func (s *service) IssueBatch(ctx context.Context, ownerID uuid.UUID, input domain.BatchIssueInput) (*domain.BatchReport, error) {
	if len(input.WorkIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(input.WorkIDs) > domain.MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	if !input.CertificateType.Valid() {
		return nil, certificate.ErrInvalidCertificateType
	}

	works, err := s.workRepo.ListByIDs(ctx, input.WorkIDs)
	if err != nil {
		return nil, err
	}
	owned := make(map[uuid.UUID]bool, len(works))
	for _, w := range works {
		if w.OwnerID == ownerID {
			owned[w.ID] = true
		}
	}
	for _, id := range input.WorkIDs {
		if !owned[id] {
			return nil, ErrForeignWork
		}
	}

	results := make([]domain.BatchItemResult, len(input.WorkIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, workID := range input.WorkIDs {
		g.Go(func() error {
			results[i] = s.issueOne(gctx, ownerID, workID, input)
			return nil
		})
	}
	// Workers never return errors; failures live in the per-item results.
	_ = g.Wait()

	report := &domain.BatchReport{Results: results}
	report.Stats.Total = len(results)
	for _, r := range results {
		if r.Success {
			report.Stats.Successful++
			continue
		}
		report.Stats.Failed++
		if r.Error != nil && *r.Error == AlreadyCertifiedMessage {
			report.Stats.AlreadyCertified++
		}
	}

	return report, nil
}

func (s *service) issueOne(ctx context.Context, ownerID, workID uuid.UUID, input domain.BatchIssueInput) domain.BatchItemResult {
	result := domain.BatchItemResult{WorkID: workID}

	// Best-effort duplicate guard. Two racing batches can still both pass
	// this check; the storage layer's partial unique index is the backstop.
	has, err := s.certSvc.HasCertificate(ctx, workID)
	if err != nil {
		msg := err.Error()
		result.Error = &msg
		return result
	}
	if has {
		msg := AlreadyCertifiedMessage
		result.Error = &msg
		return result
	}

	cert, err := s.certSvc.Issue(ctx, ownerID, domain.IssueCertificateInput{
		WorkID:          workID,
		CertificateType: input.CertificateType,
		RegisterOnChain: input.RegisterOnChain,
	})
	if err != nil {
		msg := err.Error()
		result.Error = &msg
		return result
	}

	result.Success = true
	result.CertificateID = &cert.ID
	return result
}

// IssueBatchArchive issues the batch and packages each successful item's
// exported artifact into a single zip. Archive failure degrades to the bare
// report rather than dropping the progress already made.
func (s *service) IssueBatchArchive(ctx context.Context, ownerID uuid.UUID, input domain.BatchIssueInput, format export.Format) (*domain.BatchArchive, error) {
	report, err := s.IssueBatch(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}

	archive := &domain.BatchArchive{
		Report:   *report,
		FileName: fmt.Sprintf("certificates-%s.zip", time.Now().UTC().Format("20060102-150405")),
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	packaged := 0

	for _, item := range report.Results {
		if !item.Success || item.CertificateID == nil {
			continue
		}

		artifact, err := s.exportSvc.Export(ctx, ownerID, *item.CertificateID, format)
		if err != nil {
			log.Printf("Failed to export certificate %s for archive: %v", *item.CertificateID, err)
			continue
		}

		entry, err := zw.Create(artifact.FileName)
		if err != nil {
			log.Printf("Failed to add %s to archive: %v", artifact.FileName, err)
			continue
		}
		if _, err := entry.Write(artifact.Data); err != nil {
			log.Printf("Failed to write %s into archive: %v", artifact.FileName, err)
			continue
		}
		packaged++
	}

	if err := zw.Close(); err != nil || packaged == 0 {
		// Degrade to the per-item progress; the caller still learns what was
		// issued even without a download.
		archive.Archive = nil
		return archive, nil
	}

	archive.Archive = buf.Bytes()
	return archive, nil
}
