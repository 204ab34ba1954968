package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/service/export"
)

type ExportService struct {
	mock.Mock
}

func (m *ExportService) Export(ctx context.Context, callerID uuid.UUID, certificateID string, format export.Format) (*export.Artifact, error) {
	args := m.Called(ctx, callerID, certificateID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Artifact), args.Error(1)
}

func (m *ExportService) ExportCertificate(ctx context.Context, cert *domain.Certificate, format export.Format) (*export.Artifact, error) {
	args := m.Called(ctx, cert, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Artifact), args.Error(1)
}
