package anchor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

type simEntry struct {
	transactionID string
	blockNumber   int64
	registeredAt  time.Time
}

// Sim is a deterministic in-memory ledger for development and tests.
// Transaction IDs derive from the registered hash so repeated runs produce
// identical chains.
type Sim struct {
	mu        sync.RWMutex
	network   string
	entries   map[string]simEntry
	revoked   map[string]bool
	nextBlock int64
}

func NewSim(network string) *Sim {
	return &Sim{
		network:   network,
		entries:   make(map[string]simEntry),
		revoked:   make(map[string]bool),
		nextBlock: 1_000_000,
	}
}

func (s *Sim) NetworkName() string {
	return s.network
}

func (s *Sim) Register(ctx context.Context, workID uuid.UUID, hash string, ownerID uuid.UUID) (*RegisterResult, error) {
	if hash == "" {
		return &RegisterResult{Success: false, Error: "empty hash"}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[hash]; ok {
		return &RegisterResult{
			Success:       true,
			TransactionID: entry.transactionID,
			BlockNumber:   entry.blockNumber,
		}, nil
	}

	sum := sha256.Sum256([]byte(hash + workID.String()))
	entry := simEntry{
		transactionID: "0x" + hex.EncodeToString(sum[:]),
		blockNumber:   s.nextBlock,
		registeredAt:  time.Now().UTC(),
	}
	s.nextBlock++
	s.entries[hash] = entry

	return &RegisterResult{
		Success:       true,
		TransactionID: entry.transactionID,
		BlockNumber:   entry.blockNumber,
	}, nil
}

func (s *Sim) VerifyExact(ctx context.Context, hash string) (*ExactResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[hash]
	if !ok {
		return &ExactResult{Verified: false}, nil
	}

	ts := entry.registeredAt
	tx := entry.transactionID
	return &ExactResult{Verified: true, Timestamp: &ts, TransactionID: &tx}, nil
}

func (s *Sim) VerifyFuzzy(ctx context.Context, desc Descriptor) (*FuzzyResult, error) {
	hash := desc.Hash
	if hash == "" && desc.Content != "" {
		sum := sha256.Sum256([]byte(desc.Content))
		hash = hex.EncodeToString(sum[:])
	}
	if hash == "" {
		return &FuzzyResult{Verified: false, MatchPercentage: 0}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best float64
	var bestEntry *simEntry
	for known, entry := range s.entries {
		score := prefixSimilarity(hash, known)
		if score > best {
			best = score
			e := entry
			bestEntry = &e
		}
	}

	result := &FuzzyResult{Verified: best == 1, MatchPercentage: best}
	if bestEntry != nil && best > 0 {
		ts := bestEntry.registeredAt
		tx := bestEntry.transactionID
		result.Timestamp = &ts
		result.TransactionID = &tx
	}
	return result, nil
}

func (s *Sim) IsRevoked(ctx context.Context, certificateID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked[certificateID], nil
}

// MarkRevoked mirrors an on-chain revocation into the simulator.
func (s *Sim) MarkRevoked(certificateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[certificateID] = true
}

// prefixSimilarity scores two hex fingerprints by their shared prefix
// length. Identical fingerprints score 1; the stand-in for the contract's
// perceptual near-duplicate index.
func prefixSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	common := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			break
		}
		common++
	}
	return float64(common) / float64(n)
}
