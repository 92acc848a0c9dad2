package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// The version suffix allows the digest algorithm to change later.
const (
	DomainReport = "shocktest/report/v1"
)

// Digest returns the domain-separated SHA-256 of v's canonical encoding.
// Format: SHA256(domain + 0x00 + canonical(v)).
func Digest(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00}) // separator prevents domain/data boundary ambiguity
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
