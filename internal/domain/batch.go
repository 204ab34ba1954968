package domain

import "github.com/google/uuid"

// MaxBatchSize caps how many works one batch issuance request may cover.
const MaxBatchSize = 50

type BatchIssueInput struct {
	WorkIDs         []uuid.UUID     `json:"work_ids" validate:"required,max=50"`
	CertificateType CertificateType `json:"certificate_type" validate:"required"`
	RegisterOnChain bool            `json:"register_on_blockchain"`
}

type BatchItemResult struct {
	WorkID        uuid.UUID `json:"work_id"`
	Success       bool      `json:"success"`
	CertificateID *string   `json:"certificate_id,omitempty"`
	Error         *string   `json:"error,omitempty"`
}

type BatchStats struct {
	Total            int `json:"total"`
	Successful       int `json:"successful"`
	Failed           int `json:"failed"`
	AlreadyCertified int `json:"already_certified"`
}

type BatchReport struct {
	Stats   BatchStats        `json:"stats"`
	Results []BatchItemResult `json:"results"`
}

// BatchArchive is a packaged bulk download. When archive generation fails the
// coordinator still returns the per-item report with an empty archive.
type BatchArchive struct {
	Report   BatchReport `json:"report"`
	FileName string      `json:"file_name"`
	Archive  []byte      `json:"-"`
}
