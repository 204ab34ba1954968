package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"synthetic-rights/internal/domain"
)

type CertificateService struct {
	mock.Mock
}

func (m *CertificateService) Issue(ctx context.Context, callerID uuid.UUID, input domain.IssueCertificateInput) (*domain.Certificate, error) {
	args := m.Called(ctx, callerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

func (m *CertificateService) GetByID(ctx context.Context, callerID uuid.UUID, id string) (*domain.Certificate, error) {
	args := m.Called(ctx, callerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

func (m *CertificateService) List(ctx context.Context, callerID uuid.UUID, workID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.CertificateWithWork], error) {
	args := m.Called(ctx, callerID, workID, params)
	return args.Get(0).(domain.PaginatedResponse[domain.CertificateWithWork]), args.Error(1)
}

func (m *CertificateService) Revoke(ctx context.Context, id string, callerID uuid.UUID, reason string) (*domain.Certificate, error) {
	args := m.Called(ctx, id, callerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

func (m *CertificateService) HasCertificate(ctx context.Context, workID uuid.UUID) (bool, error) {
	args := m.Called(ctx, workID)
	return args.Bool(0), args.Error(1)
}
