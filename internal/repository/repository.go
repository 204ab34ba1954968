package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User             UserRepository
	Session          SessionRepository
	Work             WorkRepository
	BlockchainRecord BlockchainRecordRepository
	Certificate      CertificateRepository
	Notification     NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		Session:          NewSessionRepository(db),
		Work:             NewWorkRepository(db),
		BlockchainRecord: NewBlockchainRecordRepository(db),
		Certificate:      NewCertificateRepository(db),
		Notification:     NewNotificationRepository(db),
	}
}
