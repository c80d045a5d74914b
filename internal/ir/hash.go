package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/typebridge/internal/errors"
)

// Domain prefixes for fingerprints. The version suffix allows the encoding
// to change without colliding with earlier fingerprints.
const (
	DomainFragment = "typebridge/fragment/v1"
	DomainSchema   = "typebridge/schema/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the canonical JSON encoding of v under domain.
// Equal inputs always produce equal fingerprints.
func Fingerprint(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", errors.Wrapf(err, "fingerprint %s", domain)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
func MustFingerprint(domain string, v any) string {
	fp, err := Fingerprint(domain, v)
	if err != nil {
		panic(err)
	}
	return fp
}
