package anchor

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSim_Register(t *testing.T) {
	ctx := context.Background()
	sim := NewSim("polygon-amoy")
	workID := uuid.New()
	ownerID := uuid.New()

	t.Run("Deterministic Transaction ID", func(t *testing.T) {
		first, err := sim.Register(ctx, workID, "hash-a", ownerID)
		assert.NoError(t, err)
		assert.True(t, first.Success)
		assert.True(t, strings.HasPrefix(first.TransactionID, "0x"))
		assert.GreaterOrEqual(t, first.BlockNumber, int64(1_000_000))

		// Re-registering the same hash returns the existing entry.
		again, err := sim.Register(ctx, uuid.New(), "hash-a", ownerID)
		assert.NoError(t, err)
		assert.Equal(t, first.TransactionID, again.TransactionID)
		assert.Equal(t, first.BlockNumber, again.BlockNumber)
	})

	t.Run("Blocks Advance", func(t *testing.T) {
		a, _ := sim.Register(ctx, uuid.New(), "hash-b", ownerID)
		b, _ := sim.Register(ctx, uuid.New(), "hash-c", ownerID)
		assert.Equal(t, a.BlockNumber+1, b.BlockNumber)
	})

	t.Run("Empty Hash Fails", func(t *testing.T) {
		result, err := sim.Register(ctx, workID, "", ownerID)
		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
	})
}

func TestSim_VerifyExact(t *testing.T) {
	ctx := context.Background()
	sim := NewSim("polygon-amoy")

	reg, err := sim.Register(ctx, uuid.New(), "known-hash", uuid.New())
	assert.NoError(t, err)

	t.Run("Known Hash", func(t *testing.T) {
		result, err := sim.VerifyExact(ctx, "known-hash")
		assert.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, reg.TransactionID, *result.TransactionID)
		assert.NotNil(t, result.Timestamp)
	})

	t.Run("Unknown Hash", func(t *testing.T) {
		result, err := sim.VerifyExact(ctx, "never-registered")
		assert.NoError(t, err)
		assert.False(t, result.Verified)
	})
}

func TestSim_VerifyFuzzy(t *testing.T) {
	ctx := context.Background()
	sim := NewSim("polygon-amoy")

	_, err := sim.Register(ctx, uuid.New(), "aaaa0000", uuid.New())
	assert.NoError(t, err)

	t.Run("Exact Match Scores Full", func(t *testing.T) {
		result, err := sim.VerifyFuzzy(ctx, Descriptor{Hash: "aaaa0000"})
		assert.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, 1.0, result.MatchPercentage)
	})

	t.Run("Shared Prefix Scores Partial", func(t *testing.T) {
		result, err := sim.VerifyFuzzy(ctx, Descriptor{Hash: "aaaa1111"})
		assert.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, 0.5, result.MatchPercentage)
		assert.NotNil(t, result.TransactionID)
	})

	t.Run("No Overlap Scores Zero", func(t *testing.T) {
		result, err := sim.VerifyFuzzy(ctx, Descriptor{Hash: "zzzz9999"})
		assert.NoError(t, err)
		assert.Equal(t, 0.0, result.MatchPercentage)
		assert.Nil(t, result.TransactionID)
	})

	t.Run("Content Fallback", func(t *testing.T) {
		result, err := sim.VerifyFuzzy(ctx, Descriptor{Content: "some raw content"})
		assert.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("Empty Descriptor", func(t *testing.T) {
		result, err := sim.VerifyFuzzy(ctx, Descriptor{})
		assert.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, 0.0, result.MatchPercentage)
	})
}

func TestSim_Revocation(t *testing.T) {
	ctx := context.Background()
	sim := NewSim("polygon-amoy")

	revoked, err := sim.IsRevoked(ctx, "CERT-X")
	assert.NoError(t, err)
	assert.False(t, revoked)

	sim.MarkRevoked("CERT-X")

	revoked, err = sim.IsRevoked(ctx, "CERT-X")
	assert.NoError(t, err)
	assert.True(t, revoked)
}
