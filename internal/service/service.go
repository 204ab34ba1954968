package service

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service/anchor"
	"synthetic-rights/internal/service/auth"
	"synthetic-rights/internal/service/batch"
	"synthetic-rights/internal/service/certificate"
	"synthetic-rights/internal/service/email"
	"synthetic-rights/internal/service/export"
	"synthetic-rights/internal/service/notification"
	"synthetic-rights/internal/service/signer"
	"synthetic-rights/internal/service/verification"
	"synthetic-rights/internal/service/work"
)

type Services struct {
	Auth         auth.Service
	Work         work.Service
	Certificate  certificate.Service
	Export       export.Service
	Verification verification.Service
	Batch        batch.Service
	Notification notification.Service
	Email        email.Service
	Signer       signer.Service
	Anchor       anchor.Anchor
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config) (*Services, error) {
	signerSvc, err := signer.NewService(cfg.SigningKeySeed)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize certificate signer: %w", err)
	}

	var anchorSvc anchor.Anchor
	if cfg.AnchorMode == "rpc" && cfg.AnchorRPCURL != "" {
		anchorSvc = anchor.NewRPC(cfg.AnchorRPCURL, cfg.AnchorNetwork, cfg.AnchorTimeout)
	} else {
		anchorSvc = anchor.NewSim(cfg.AnchorNetwork)
	}

	emailSvc := email.NewService(cfg)
	authSvc := auth.NewService(repos.User, repos.Session, cfg)
	notifSvc := notification.NewService(repos.Notification, repos.User, emailSvc)
	workSvc := work.NewService(repos.Work, minioClient, redisClient, cfg)
	certSvc := certificate.NewService(repos.Work, repos.Certificate, repos.BlockchainRecord, signerSvc, anchorSvc, notifSvc, redisClient, cfg)
	exportSvc := export.NewService(repos.Certificate, repos.Work, repos.User, cfg)
	verifySvc := verification.NewService(repos.Work, repos.Certificate, repos.BlockchainRecord, repos.User, anchorSvc, redisClient, cfg)
	batchSvc := batch.NewService(repos.Work, certSvc, exportSvc, cfg)

	return &Services{
		Auth:         authSvc,
		Work:         workSvc,
		Certificate:  certSvc,
		Export:       exportSvc,
		Verification: verifySvc,
		Batch:        batchSvc,
		Notification: notifSvc,
		Email:        emailSvc,
		Signer:       signerSvc,
		Anchor:       anchorSvc,
	}, nil
}
