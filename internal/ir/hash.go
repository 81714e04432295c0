package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRig     = "ikrig/rig/v1"
	DomainJournal = "ikrig/journal/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RigID computes a content-addressed id for a chain spec. The id is stable
// across processes given the same spec.
func RigID(spec ChainSpec) (string, error) {
	canonical, err := MarshalCanonical(spec.Canonical())
	if err != nil {
		return "", fmt.Errorf("RigID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRig, canonical), nil
}

// JournalDigest hashes a sequence of canonical journal records. Two scenes
// that received the same mutations in the same order share a digest.
func JournalDigest(records []IRObject) (string, error) {
	arr := make(IRArray, len(records))
	for i, r := range records {
		arr[i] = r
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("JournalDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainJournal, canonical), nil
}

// MustRigID is like RigID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRigID(spec ChainSpec) string {
	id, err := RigID(spec)
	if err != nil {
		panic(err)
	}
	return id
}
