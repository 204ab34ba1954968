package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service/email"
)

type Service interface {
	Create(ctx context.Context, notif *domain.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	NotifyCertificateIssued(ctx context.Context, cert *domain.Certificate, workTitle string) error
	NotifyCertificateRevoked(ctx context.Context, cert *domain.Certificate, reason string) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

func (s *service) Create(ctx context.Context, notif *domain.Notification) error {
	if notif.ID == uuid.Nil {
		notif.ID = uuid.New()
	}
	return s.notifRepo.Create(ctx, notif)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.Limit, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return s.notifRepo.Delete(ctx, id, userID)
}

func (s *service) NotifyCertificateIssued(ctx context.Context, cert *domain.Certificate, workTitle string) error {
	linkURL := fmt.Sprintf("/certificates/%s", cert.ID)
	data, _ := json.Marshal(map[string]string{
		"certificate_id": cert.ID,
		"work_id":        cert.WorkID.String(),
	})

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  cert.OwnerID,
		Type:    domain.NotifRightsRegistered,
		Title:   "Certificate issued",
		Message: fmt.Sprintf("A %s certificate was issued for %q.", cert.Type, workTitle),
		LinkURL: &linkURL,
		Data:    data,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	if owner, err := s.userRepo.GetByID(ctx, cert.OwnerID); err == nil && owner != nil {
		_ = s.emailSvc.SendCertificateIssued(ctx, owner.Email, owner.DisplayName, workTitle, cert.ID, cert.PublicURL)
	}
	return nil
}

func (s *service) NotifyCertificateRevoked(ctx context.Context, cert *domain.Certificate, reason string) error {
	linkURL := fmt.Sprintf("/certificates/%s", cert.ID)
	data, _ := json.Marshal(map[string]string{
		"certificate_id": cert.ID,
		"reason":         reason,
	})

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  cert.OwnerID,
		Type:    domain.NotifCertificateRevoked,
		Title:   "Certificate revoked",
		Message: fmt.Sprintf("Certificate %s was revoked: %s", cert.ID, reason),
		LinkURL: &linkURL,
		Data:    data,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	if owner, err := s.userRepo.GetByID(ctx, cert.OwnerID); err == nil && owner != nil {
		_ = s.emailSvc.SendCertificateRevoked(ctx, owner.Email, owner.DisplayName, cert.ID, reason)
	}
	return nil
}
