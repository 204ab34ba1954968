package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"synthetic-rights/internal/domain"
)

type WorkRepository struct {
	mock.Mock
}

func (m *WorkRepository) Create(ctx context.Context, work *domain.CreativeWork) error {
	args := m.Called(ctx, work)
	return args.Error(0)
}

func (m *WorkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeWork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreativeWork), args.Error(1)
}

func (m *WorkRepository) GetByMetadataHash(ctx context.Context, hash string) (*domain.CreativeWork, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreativeWork), args.Error(1)
}

func (m *WorkRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.CreativeWork, int64, error) {
	args := m.Called(ctx, ownerID, params)
	return args.Get(0).([]domain.CreativeWork), args.Get(1).(int64), args.Error(2)
}

func (m *WorkRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.CreativeWork, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreativeWork), args.Error(1)
}

func (m *WorkRepository) Update(ctx context.Context, work *domain.CreativeWork) error {
	args := m.Called(ctx, work)
	return args.Error(0)
}

func (m *WorkRepository) SetAnchored(ctx context.Context, id uuid.UUID, metadataHash string) error {
	args := m.Called(ctx, id, metadataHash)
	return args.Error(0)
}
