// Package records is the record store collaborator: structured FileRecord
// documents with insert, targeted fingerprint updates, and cursor-based
// scans over a potentially unbounded result set.
package records

import (
	"context"

	"github.com/dmitrijs2005/hashindex/internal/models"
)

// ScanOptions tunes a Scan.
type ScanOptions struct {
	// NoIdleTimeout asks the store to keep the cursor alive for the whole
	// run, however slowly it is drained. Long digest passes set this so the
	// store's idle-cursor expiry cannot abort them mid-run. Backends without
	// idle expiry accept it as a no-op.
	NoIdleTimeout bool

	// OnlyMissingFingerprint restricts the scan to records without a
	// fingerprint, pushing the filter into the store instead of draining
	// already-hashed records over the cursor.
	OnlyMissingFingerprint bool
}

// Cursor iterates records lazily, one at a time. The usual loop mirrors
// sql.Rows:
//
//	for cur.Next() {
//	    rec := cur.Record()
//	    ...
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	Next() bool
	// Record returns the record positioned by the last successful Next.
	Record() *models.FileRecord
	Err() error
	Close() error
}

// Repository is the record store contract. Implementations never assume
// exclusive store access: UpdateFingerprint must be a single atomic field
// update scoped to one record id, not a read-modify-write.
type Repository interface {
	// Insert stores a new record and returns the store-assigned id.
	Insert(ctx context.Context, rec *models.FileRecord) (string, error)

	// UpdateFingerprint sets the fingerprint of one record by id. Returns
	// an error matching common.ErrNotFound when no such record exists.
	UpdateFingerprint(ctx context.Context, id, fingerprint string) error

	// FindByPath returns the first record stored under the given original
	// path, or an error matching common.ErrNotFound when none exists. Paths
	// are not unique; uploads of the same path create distinct records.
	FindByPath(ctx context.Context, path string) (*models.FileRecord, error)

	// ListPaths returns every OriginalPath in the store, one scan.
	ListPaths(ctx context.Context) ([]string, error)

	// CountAll returns the total number of records.
	CountAll(ctx context.Context) (int64, error)

	// Scan opens a cursor over all records.
	Scan(ctx context.Context, opts ScanOptions) (Cursor, error)
}
