package domain

import (
	"time"

	"github.com/google/uuid"
)

type WorkType string

const (
	WorkTypeImage WorkType = "image"
	WorkTypeVideo WorkType = "video"
	WorkTypeAudio WorkType = "audio"
	WorkTypeText  WorkType = "text"
)

func (t WorkType) Valid() bool {
	switch t {
	case WorkTypeImage, WorkTypeVideo, WorkTypeAudio, WorkTypeText:
		return true
	}
	return false
}

type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationRegistered RegistrationStatus = "registered"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
	VisibilityLimited Visibility = "limited"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityLimited:
		return true
	}
	return false
}

// CreativeWork is a registered creative asset. Works are never deleted, only
// superseded; MetadataHash stays nil until the fingerprint is computed, which
// doubles as the "not yet anchored" signal.
type CreativeWork struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	OwnerID            uuid.UUID          `json:"owner_id" db:"owner_id"`
	Title              string             `json:"title" db:"title"`
	Description        *string            `json:"description,omitempty" db:"description"`
	WorkType           WorkType           `json:"work_type" db:"work_type"`
	MetadataHash       *string            `json:"metadata_hash,omitempty" db:"metadata_hash"`
	ContentDigest      *string            `json:"-" db:"content_digest"`
	RegistrationStatus RegistrationStatus `json:"registration_status" db:"registration_status"`
	DetectionEnabled   bool               `json:"detection_enabled" db:"detection_enabled"`
	AITrainingOptOut   bool               `json:"ai_training_opt_out" db:"ai_training_opt_out"`
	Visibility         Visibility         `json:"visibility" db:"visibility"`
	StoragePath        *string            `json:"-" db:"storage_path"`
	ThumbnailPath      *string            `json:"-" db:"thumbnail_path"`
	FileURL            *string            `json:"file_url,omitempty" db:"-"`
	ThumbnailURL       *string            `json:"thumbnail_url,omitempty" db:"-"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// Anchored reports whether the work already carries an on-chain registration.
func (w *CreativeWork) Anchored(record *BlockchainRecord) bool {
	return w.MetadataHash != nil && record != nil
}

type RegisterWorkInput struct {
	Title            string     `json:"title" validate:"required,min=1"`
	Description      *string    `json:"description,omitempty"`
	WorkType         WorkType   `json:"work_type" validate:"required"`
	Visibility       Visibility `json:"visibility,omitempty"`
	DetectionEnabled *bool      `json:"detection_enabled,omitempty"`
	AITrainingOptOut *bool      `json:"ai_training_opt_out,omitempty"`
}

type UpdateWorkInput struct {
	Description      *string     `json:"description,omitempty"`
	Visibility       *Visibility `json:"visibility,omitempty"`
	DetectionEnabled *bool       `json:"detection_enabled,omitempty"`
	AITrainingOptOut *bool       `json:"ai_training_opt_out,omitempty"`
}

// WorkSummary is the nested shape embedded in certificate listings.
type WorkSummary struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Title    string    `json:"title" db:"title"`
	WorkType WorkType  `json:"work_type" db:"work_type"`
}
