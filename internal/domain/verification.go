package domain

import "time"

// ExternalWorkID marks chain-verified content that is not registered locally.
const ExternalWorkID = "external"

// VerifiedWork is the ownership information exposed by verification. Fields
// past the reduced set are only populated for PUBLIC works whose owner has a
// public profile; file URLs and owner email never appear here.
type VerifiedWork struct {
	WorkID             string  `json:"work_id"`
	Title              string  `json:"title,omitempty"`
	OwnerName          string  `json:"owner_name,omitempty"`
	RegistrationStatus string  `json:"registration_status,omitempty"`
	MetadataHash       string  `json:"metadata_hash,omitempty"`
	TransactionID      *string `json:"transaction_id,omitempty"`
	BlockNumber        *int64  `json:"block_number,omitempty"`
	NetworkName        *string `json:"network_name,omitempty"`

	// Full-result fields, omitted for non-public works.
	Description  *string    `json:"description,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Category     *string    `json:"category,omitempty"`
	OwnerBio     *string    `json:"owner_bio,omitempty"`
	OwnerAvatar  *string    `json:"owner_avatar,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type VerifiedCertificate struct {
	ID        string     `json:"id"`
	IsRevoked bool       `json:"is_revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IssuedAt  time.Time  `json:"issued_at"`
}

type VerificationResult struct {
	Success         bool                 `json:"success"`
	Verified        bool                 `json:"verified"`
	Message         string               `json:"message,omitempty"`
	MatchPercentage *float64             `json:"match_percentage,omitempty"`
	Timestamp       *time.Time           `json:"timestamp,omitempty"`
	Work            *VerifiedWork        `json:"work,omitempty"`
	Certificate     *VerifiedCertificate `json:"certificate,omitempty"`
}

// FuzzyVerifyInput is the request body for similarity-based verification.
type FuzzyVerifyInput struct {
	Content  *string        `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
