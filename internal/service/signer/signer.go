// Package signer produces the cryptographic signature over a certificate's
// canonical metadata. The scheme is Ed25519 over the metadata's canonical
// JSON encoding; signatures are deterministic for identical input under a
// fixed key.
package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"synthetic-rights/internal/domain"
)

var ErrSigningFailed = errors.New("certificate signing failed")

type Service interface {
	// Sign returns a base64 signature over the canonical metadata.
	Sign(meta domain.CertificateMetadata) (string, error)
	// Verify checks a signature produced by Sign against this signer's key.
	Verify(meta domain.CertificateMetadata, signature string) bool
	// PublicKey returns the hex-encoded verification key.
	PublicKey() string
}

type service struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewService builds a signer from a hex-encoded 32-byte Ed25519 seed. An
// empty seed generates an ephemeral key, which only makes sense outside
// production since certificates outlive the process.
func NewService(hexSeed string) (Service, error) {
	if hexSeed == "" {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		return &service{priv: priv, pub: pub}, nil
	}

	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("decode signing key seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &service{priv: priv, pub: priv.Public().(ed25519.PublicKey)}, nil
}

func (s *service) Sign(meta domain.CertificateMetadata) (string, error) {
	payload, err := canonicalPayload(meta)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}

	sig := ed25519.Sign(s.priv, payload)
	return base64.StdEncoding.EncodeToString(sig), nil
}

func (s *service) Verify(meta domain.CertificateMetadata, signature string) bool {
	payload, err := canonicalPayload(meta)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(s.pub, payload, sig)
}

func (s *service) PublicKey() string {
	return hex.EncodeToString(s.pub)
}

// canonicalPayload encodes the metadata in its canonical form: JSON with
// fields in struct declaration order and the revocation record excluded, so
// revoking never invalidates the issuance signature.
func canonicalPayload(meta domain.CertificateMetadata) ([]byte, error) {
	meta.Revocation = nil
	return json.Marshal(meta)
}
