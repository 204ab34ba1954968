package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"synthetic-rights/internal/domain"
)

type WorkRepository interface {
	Create(ctx context.Context, work *domain.CreativeWork) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeWork, error)
	GetByMetadataHash(ctx context.Context, hash string) (*domain.CreativeWork, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.CreativeWork, int64, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.CreativeWork, error)
	Update(ctx context.Context, work *domain.CreativeWork) error
	SetAnchored(ctx context.Context, id uuid.UUID, metadataHash string) error
}

type workRepository struct {
	db *sqlx.DB
}

func NewWorkRepository(db *sqlx.DB) WorkRepository {
	return &workRepository{db: db}
}

func (r *workRepository) Create(ctx context.Context, work *domain.CreativeWork) error {
	query := `
		INSERT INTO creative_works (
			id, owner_id, title, description, work_type, metadata_hash,
			content_digest, registration_status, detection_enabled,
			ai_training_opt_out, visibility, storage_path, thumbnail_path
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		work.ID, work.OwnerID, work.Title, work.Description, work.WorkType,
		work.MetadataHash, work.ContentDigest, work.RegistrationStatus,
		work.DetectionEnabled, work.AITrainingOptOut, work.Visibility,
		work.StoragePath, work.ThumbnailPath,
	).Scan(&work.CreatedAt, &work.UpdatedAt)
}

func (r *workRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeWork, error) {
	var work domain.CreativeWork
	query := `SELECT * FROM creative_works WHERE id = $1`
	err := r.db.GetContext(ctx, &work, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) GetByMetadataHash(ctx context.Context, hash string) (*domain.CreativeWork, error) {
	var work domain.CreativeWork
	query := `SELECT * FROM creative_works WHERE metadata_hash = $1`
	err := r.db.GetContext(ctx, &work, query, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.CreativeWork, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM creative_works WHERE owner_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, 0, err
	}

	var works []domain.CreativeWork
	query := `
		SELECT * FROM creative_works
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &works, query, ownerID, params.Limit, params.Offset())
	return works, total, err
}

func (r *workRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.CreativeWork, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM creative_works WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var works []domain.CreativeWork
	err = r.db.SelectContext(ctx, &works, r.db.Rebind(query), args...)
	return works, err
}

func (r *workRepository) Update(ctx context.Context, work *domain.CreativeWork) error {
	query := `
		UPDATE creative_works
		SET description = $2, metadata_hash = $3, visibility = $4,
		    detection_enabled = $5, ai_training_opt_out = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		work.ID, work.Description, work.MetadataHash, work.Visibility,
		work.DetectionEnabled, work.AITrainingOptOut,
	).Scan(&work.UpdatedAt)
}

func (r *workRepository) SetAnchored(ctx context.Context, id uuid.UUID, metadataHash string) error {
	query := `
		UPDATE creative_works
		SET metadata_hash = $2, registration_status = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, metadataHash, domain.RegistrationRegistered)
	return err
}
