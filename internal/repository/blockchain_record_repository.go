package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"synthetic-rights/internal/domain"
)

type BlockchainRecordRepository interface {
	Create(ctx context.Context, record *domain.BlockchainRecord) error
	GetByWorkID(ctx context.Context, workID uuid.UUID) (*domain.BlockchainRecord, error)
	SetVerified(ctx context.Context, workID uuid.UUID, verified bool) error
}

type blockchainRecordRepository struct {
	db *sqlx.DB
}

func NewBlockchainRecordRepository(db *sqlx.DB) BlockchainRecordRepository {
	return &blockchainRecordRepository{db: db}
}

func (r *blockchainRecordRepository) Create(ctx context.Context, record *domain.BlockchainRecord) error {
	query := `
		INSERT INTO blockchain_records (id, work_id, transaction_id, block_number, network_name, registered_at, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.WorkID, record.TransactionID, record.BlockNumber,
		record.NetworkName, record.RegisteredAt, record.Verified,
	)
	return err
}

func (r *blockchainRecordRepository) GetByWorkID(ctx context.Context, workID uuid.UUID) (*domain.BlockchainRecord, error) {
	var record domain.BlockchainRecord
	query := `SELECT * FROM blockchain_records WHERE work_id = $1`
	err := r.db.GetContext(ctx, &record, query, workID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *blockchainRecordRepository) SetVerified(ctx context.Context, workID uuid.UUID, verified bool) error {
	query := `UPDATE blockchain_records SET verified = $2 WHERE work_id = $1`
	_, err := r.db.ExecContext(ctx, query, workID, verified)
	return err
}
