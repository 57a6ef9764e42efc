// Package hashing computes content fingerprints for stored files. A
// fingerprint is the lowercase hex SHA-256 of the full byte content,
// computed incrementally so arbitrarily large files never have to fit
// in memory.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// DefaultChunkSize is the read buffer size used when none is configured.
const DefaultChunkSize = 4 * 1024 * 1024

// Hasher streams byte content through SHA-256 in bounded chunks. The chunk
// size only bounds memory use; the resulting fingerprint is identical for
// any chunk size.
type Hasher struct {
	chunkSize int
}

// New returns a Hasher reading in chunks of chunkSize bytes. A chunkSize
// of zero or less selects DefaultChunkSize.
func New(chunkSize int) *Hasher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Hasher{chunkSize: chunkSize}
}

// Digest consumes r to EOF and returns the hex fingerprint. If the stream
// cannot be fully read, the error is returned and no partial digest is
// ever produced.
func (h *Hasher) Digest(r io.Reader) (string, error) {
	sum := sha256.New()
	buf := make([]byte, h.chunkSize)
	if _, err := io.CopyBuffer(sum, r, buf); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}
