package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlockchainRecord is created exactly once per work when anchoring succeeds
// and is immutable afterwards, except for the Verified flag which
// re-verification may refresh.
type BlockchainRecord struct {
	ID            uuid.UUID `json:"id" db:"id"`
	WorkID        uuid.UUID `json:"work_id" db:"work_id"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	BlockNumber   int64     `json:"block_number" db:"block_number"`
	NetworkName   string    `json:"network_name" db:"network_name"`
	RegisteredAt  time.Time `json:"registered_at" db:"registered_at"`
	Verified      bool      `json:"verified" db:"verified"`
}
