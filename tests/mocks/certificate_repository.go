package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"synthetic-rights/internal/domain"
)

type CertificateRepository struct {
	mock.Mock
}

func (m *CertificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *CertificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

func (m *CertificateRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, workID *uuid.UUID, params domain.PaginationParams) ([]domain.CertificateWithWork, int64, error) {
	args := m.Called(ctx, ownerID, workID, params)
	return args.Get(0).([]domain.CertificateWithWork), args.Get(1).(int64), args.Error(2)
}

func (m *CertificateRepository) CountByWork(ctx context.Context, workID uuid.UUID) (int64, error) {
	args := m.Called(ctx, workID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CertificateRepository) Revoke(ctx context.Context, cert *domain.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}
