// Package models defines the data model persisted in the record store.
package models

import "time"

// FileRecord describes one uploaded file. The raw bytes live in the blob
// store under StorageRef; this record carries identity and metadata only.
type FileRecord struct {
	// ID is assigned by the record store at insert and never changes.
	ID string
	// OriginalPath is the source path at upload time. It is the key used
	// for existence checks; the store does not enforce uniqueness.
	OriginalPath string
	// StorageRef is the blob store reference. Set once at creation.
	StorageRef string
	// SizeBytes is the byte length recorded at upload time.
	SizeBytes int64
	// Fingerprint is the hex content digest. Nil until a digest pass
	// computes it; stable once set because content is immutable.
	Fingerprint *string
	// UploadedAt is set once at creation.
	UploadedAt time.Time
}

// HasFingerprint reports whether a digest pass has already hashed this record.
func (r *FileRecord) HasFingerprint() bool {
	return r.Fingerprint != nil && *r.Fingerprint != ""
}
