package handler

import "synthetic-rights/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	Work         *WorkHandler
	Certificate  *CertificateHandler
	Verification *VerificationHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Work:         NewWorkHandler(services.Work),
		Certificate:  NewCertificateHandler(services.Certificate, services.Export, services.Batch),
		Verification: NewVerificationHandler(services.Verification),
		Notification: NewNotificationHandler(services.Notification),
	}
}
