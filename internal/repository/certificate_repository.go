package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"synthetic-rights/internal/domain"
)

type CertificateRepository interface {
	Create(ctx context.Context, cert *domain.Certificate) error
	GetByID(ctx context.Context, id string) (*domain.Certificate, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, workID *uuid.UUID, params domain.PaginationParams) ([]domain.CertificateWithWork, int64, error)
	CountByWork(ctx context.Context, workID uuid.UUID) (int64, error)
	Revoke(ctx context.Context, cert *domain.Certificate) error
}

type certificateRepository struct {
	db *sqlx.DB
}

func NewCertificateRepository(db *sqlx.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	query := `
		INSERT INTO certificates (id, work_id, owner_id, certificate_type, metadata, signature, public_url, is_revoked, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		cert.ID, cert.WorkID, cert.OwnerID, cert.Type, cert.Metadata,
		cert.Signature, cert.PublicURL, cert.IsRevoked, cert.ExpiresAt,
	).Scan(&cert.CreatedAt, &cert.UpdatedAt)
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	var cert domain.Certificate
	query := `SELECT * FROM certificates WHERE id = $1`
	err := r.db.GetContext(ctx, &cert, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, workID *uuid.UUID, params domain.PaginationParams) ([]domain.CertificateWithWork, int64, error) {
	params.Validate()

	var total int64
	var certs []domain.CertificateWithWork

	if workID != nil {
		countQuery := `SELECT COUNT(*) FROM certificates WHERE owner_id = $1 AND work_id = $2`
		if err := r.db.GetContext(ctx, &total, countQuery, ownerID, *workID); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT c.*,
			       w.id "work.id", w.title "work.title", w.work_type "work.work_type"
			FROM certificates c
			JOIN creative_works w ON w.id = c.work_id
			WHERE c.owner_id = $1 AND c.work_id = $2
			ORDER BY c.created_at DESC
			LIMIT $3 OFFSET $4`
		err := r.db.SelectContext(ctx, &certs, query, ownerID, *workID, params.Limit, params.Offset())
		return certs, total, err
	}

	countQuery := `SELECT COUNT(*) FROM certificates WHERE owner_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT c.*,
		       w.id "work.id", w.title "work.title", w.work_type "work.work_type"
		FROM certificates c
		JOIN creative_works w ON w.id = c.work_id
		WHERE c.owner_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &certs, query, ownerID, params.Limit, params.Offset())
	return certs, total, err
}

func (r *certificateRepository) CountByWork(ctx context.Context, workID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM certificates WHERE work_id = $1`
	err := r.db.GetContext(ctx, &count, query, workID)
	return count, err
}

// Revoke persists the revocation flag together with the metadata carrying the
// appended revocation record. The signature column is left untouched.
func (r *certificateRepository) Revoke(ctx context.Context, cert *domain.Certificate) error {
	query := `
		UPDATE certificates
		SET is_revoked = true, metadata = $2, updated_at = NOW()
		WHERE id = $1 AND is_revoked = false
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query, cert.ID, cert.Metadata).Scan(&cert.UpdatedAt)
}
