// Package fingerprint computes the stable metadata hash identifying a
// creative work's registrable attributes. The same logical content always
// produces the same hash; changing any attribute changes it.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"synthetic-rights/internal/domain"
)

// Attributes are the registrable fields covered by the fingerprint.
// ContentDigest is the normalized content reference (digest of the raw
// asset bytes), empty for works registered without an uploaded asset.
type Attributes struct {
	Title         string
	Description   string
	WorkType      domain.WorkType
	ContentDigest string
}

// Compute returns the hex SHA-256 fingerprint of the canonicalized
// attributes. Field order and the separator are fixed; title and description
// are whitespace-normalized and lowercased so cosmetic edits do not change
// the identity.
func Compute(attrs Attributes) string {
	canonical := strings.Join([]string{
		"v1",
		normalize(attrs.Title),
		normalize(attrs.Description),
		string(attrs.WorkType),
		attrs.ContentDigest,
	}, "\x1f")

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// ContentDigest streams the asset bytes into a SHA-256 digest.
func ContentDigest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
