package corpus

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hashindex/internal/blobstore"
	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/dmitrijs2005/hashindex/internal/hashing"
	"github.com/dmitrijs2005/hashindex/internal/logging"
	"github.com/dmitrijs2005/hashindex/internal/models"
	"github.com/dmitrijs2005/hashindex/internal/records"
)

// reasonMissingBlob marks a record whose storage reference resolves to
// nothing. That is a data-corruption condition: the record is reported as
// failed, never silently dropped.
const reasonMissingBlob = "missing blob"

// DigestPass computes and persists fingerprints for stored records. The
// pass is idempotent and restartable: already-hashed records are skipped
// (unless redigest is set) and each update is a single targeted field
// write, so interrupting and re-running converges on the same end state.
type DigestPass struct {
	blobs    blobstore.Store
	recs     records.Repository
	hasher   *hashing.Hasher
	logger   logging.Logger
	redigest bool
}

// NewDigestPass builds a digest pass. With redigest set, records that
// already carry a fingerprint are recomputed and overwritten; content is
// immutable after upload, so the value can only be rewritten identically.
func NewDigestPass(blobs blobstore.Store, recs records.Repository, hasher *hashing.Hasher, logger logging.Logger, redigest bool) *DigestPass {
	return &DigestPass{
		blobs:    blobs,
		recs:     recs,
		hasher:   hasher,
		logger:   logger,
		redigest: redigest,
	}
}

// DigestAll fills in missing fingerprints. The scan is restricted to
// records without one (every record when redigest is set) and runs with
// idle-cursor expiry disabled, so a slow pass over an unbounded record
// set is never aborted by the store. Per-record failures are
// collected; only the scan itself failing is returned as an error, together
// with the report accumulated so far.
func (d *DigestPass) DigestAll(ctx context.Context) (*DigestReport, error) {
	opts := records.ScanOptions{NoIdleTimeout: true, OnlyMissingFingerprint: !d.redigest}

	total, err := d.recs.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := d.recs.Scan(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	report := &DigestReport{}
	seen := 0
	for cur.Next() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		seen++
		d.digestOne(ctx, cur.Record(), report)
	}
	if err := cur.Err(); err != nil {
		return report, err
	}
	// Already-hashed records never crossed the cursor; the gap against the
	// total is what the pass skipped.
	if opts.OnlyMissingFingerprint && int64(seen) < total {
		report.SkippedAlreadyHashed += int(total) - seen
	}

	d.logger.Info(ctx, "digest pass finished",
		"processed", report.Processed,
		"skipped_already_hashed", report.SkippedAlreadyHashed,
		"failed", len(report.Failed))
	return report, nil
}

func (d *DigestPass) digestOne(ctx context.Context, rec *models.FileRecord, report *DigestReport) {
	if rec.HasFingerprint() && !d.redigest {
		report.SkippedAlreadyHashed++
		return
	}

	rc, err := d.blobs.Get(ctx, rec.StorageRef)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, common.ErrNotFound) {
			reason = reasonMissingBlob
			d.logger.Error(ctx, "record has dangling storage reference",
				"id", rec.ID, "path", rec.OriginalPath, "ref", rec.StorageRef)
		} else {
			d.logger.Warn(ctx, "cannot open blob", "id", rec.ID, "error", err.Error())
		}
		report.Failed = append(report.Failed, ItemFailure{Item: rec.ID, Reason: reason})
		return
	}
	defer rc.Close()

	fp, err := d.hasher.Digest(rc)
	if err != nil {
		d.logger.Warn(ctx, "digest failed", "id", rec.ID, "error", err.Error())
		report.Failed = append(report.Failed, ItemFailure{Item: rec.ID, Reason: err.Error()})
		return
	}

	if err := d.recs.UpdateFingerprint(ctx, rec.ID, fp); err != nil {
		d.logger.Warn(ctx, "fingerprint update failed", "id", rec.ID, "error", err.Error())
		report.Failed = append(report.Failed, ItemFailure{Item: rec.ID, Reason: err.Error()})
		return
	}

	d.logger.Debug(ctx, "fingerprint stored", "id", rec.ID, "fingerprint", fp)
	report.Processed++
}
