// Package anchor talks to the distributed ledger that records work
// fingerprints. The real contract shape is still settling, so everything
// stays behind the Anchor interface: an HTTP RPC client for deployed
// networks and an in-memory simulator for development and tests.
package anchor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RegisterResult reports the outcome of an anchoring attempt. Callers must
// check Success; a nil error only means the RPC round-trip itself worked.
type RegisterResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	BlockNumber   int64  `json:"block_number,omitempty"`
	Error         string `json:"error,omitempty"`
}

type ExactResult struct {
	Verified      bool       `json:"verified"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	TransactionID *string    `json:"transaction_id,omitempty"`
}

type FuzzyResult struct {
	Verified        bool       `json:"verified"`
	MatchPercentage float64    `json:"match_percentage"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	TransactionID   *string    `json:"transaction_id,omitempty"`
}

// Descriptor is the near-duplicate fingerprint material for fuzzy lookups.
type Descriptor struct {
	Hash     string         `json:"hash,omitempty"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Anchor interface {
	// Register records a work fingerprint on the ledger. Bounded by the
	// configured timeout; a timeout is a failure, never assumed success.
	Register(ctx context.Context, workID uuid.UUID, hash string, ownerID uuid.UUID) (*RegisterResult, error)

	// VerifyExact is a pure lookup with no side effects.
	VerifyExact(ctx context.Context, hash string) (*ExactResult, error)

	// VerifyFuzzy matches against near-duplicate fingerprints and returns a
	// confidence score in [0,1]. Threshold policy belongs to the caller.
	VerifyFuzzy(ctx context.Context, desc Descriptor) (*FuzzyResult, error)

	// IsRevoked reports the ledger-level revocation state of a certificate.
	IsRevoked(ctx context.Context, certificateID string) (bool, error)

	NetworkName() string
}
