package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendCertificateIssued(ctx context.Context, toEmail, ownerName, workTitle, certificateID, certificateURL string) error {
	args := m.Called(ctx, toEmail, ownerName, workTitle, certificateID, certificateURL)
	return args.Error(0)
}

func (m *EmailService) SendCertificateRevoked(ctx context.Context, toEmail, ownerName, certificateID, reason string) error {
	args := m.Called(ctx, toEmail, ownerName, certificateID, reason)
	return args.Error(0)
}
