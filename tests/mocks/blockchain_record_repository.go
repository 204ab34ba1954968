package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"synthetic-rights/internal/domain"
)

type BlockchainRecordRepository struct {
	mock.Mock
}

func (m *BlockchainRecordRepository) Create(ctx context.Context, record *domain.BlockchainRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *BlockchainRecordRepository) GetByWorkID(ctx context.Context, workID uuid.UUID) (*domain.BlockchainRecord, error) {
	args := m.Called(ctx, workID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlockchainRecord), args.Error(1)
}

func (m *BlockchainRecordRepository) SetVerified(ctx context.Context, workID uuid.UUID, verified bool) error {
	args := m.Called(ctx, workID, verified)
	return args.Error(0)
}
