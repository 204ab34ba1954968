package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type CertificateType string

const (
	CertificateStandard CertificateType = "standard"
	CertificatePremium  CertificateType = "premium"
	CertificateEnhanced CertificateType = "enhanced"
)

func (t CertificateType) Valid() bool {
	switch t {
	case CertificateStandard, CertificatePremium, CertificateEnhanced:
		return true
	}
	return false
}

const CertificateMetadataVersion = "1.0"

// StandardCertificateTTL is how long a standard certificate stays valid.
// Premium and enhanced certificates never expire.
const StandardCertificateTTL = 365 * 24 * time.Hour

// RevocationRecord is appended into certificate metadata on revocation.
// Revocation is additive: the original metadata and signature stay intact
// for auditability.
type RevocationRecord struct {
	RevokedAt time.Time `json:"revokedAt"`
	RevokedBy uuid.UUID `json:"revokedBy"`
	Reason    string    `json:"reason"`
}

// CertificateMetadata is the canonical snapshot signed at issuance. The JSON
// field order follows the struct declaration, which is the canonical order
// the signer operates on.
type CertificateMetadata struct {
	Version       string            `json:"version"`
	CertificateID string            `json:"certificateId"`
	WorkID        uuid.UUID         `json:"workId"`
	MetadataHash  string            `json:"metadataHash"`
	RegisteredAt  time.Time         `json:"registeredAt"`
	TransactionID *string           `json:"transactionId,omitempty"`
	BlockNumber   *int64            `json:"blockNumber,omitempty"`
	NetworkName   *string           `json:"networkName,omitempty"`
	IssuedAt      time.Time         `json:"issuedAt"`
	ExpiresAt     *time.Time        `json:"expiresAt,omitempty"`
	Revocation    *RevocationRecord `json:"revocation,omitempty"`
}

func (m CertificateMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *CertificateMetadata) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("unsupported type for CertificateMetadata")
}

type Certificate struct {
	ID        string              `json:"id" db:"id"`
	WorkID    uuid.UUID           `json:"work_id" db:"work_id"`
	OwnerID   uuid.UUID           `json:"owner_id" db:"owner_id"`
	Type      CertificateType     `json:"certificate_type" db:"certificate_type"`
	Metadata  CertificateMetadata `json:"metadata" db:"metadata"`
	Signature string              `json:"signature" db:"signature"`
	PublicURL string              `json:"public_url" db:"public_url"`
	IsRevoked bool                `json:"is_revoked" db:"is_revoked"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" db:"updated_at"`
}

// CertificateWithWork carries the nested work summary for listings.
type CertificateWithWork struct {
	Certificate
	Work WorkSummary `json:"work"`
}

type IssueCertificateInput struct {
	WorkID          uuid.UUID       `json:"work_id" validate:"required"`
	CertificateType CertificateType `json:"certificate_type" validate:"required"`
	RegisterOnChain bool            `json:"register_on_blockchain"`
}

type RevokeCertificateInput struct {
	Reason string `json:"reason" validate:"required"`
}

// CertificateArtifact is the stable export contract for the JSON format.
type CertificateArtifact struct {
	Metadata           CertificateMetadata `json:"metadata"`
	Signature          string              `json:"signature"`
	CertificateVersion string              `json:"certificateVersion"`
	PublicURL          string              `json:"publicUrl"`
}
