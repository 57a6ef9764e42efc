package corpus

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/hashindex/internal/blobstore"
	"github.com/dmitrijs2005/hashindex/internal/logging"
	"github.com/dmitrijs2005/hashindex/internal/models"
	"github.com/dmitrijs2005/hashindex/internal/records"
)

type uploadOutcome int

const (
	outcomeUploaded uploadOutcome = iota
	outcomeSkippedExisting
	outcomeFailed
)

// Uploader writes candidate files into the blob store and records their
// metadata. The pipeline is best-effort: a single file failure is collected
// into the report and the batch continues.
type Uploader struct {
	blobs   blobstore.Store
	recs    records.Repository
	index   *ExistenceIndex
	logger  logging.Logger
	workers int
}

// NewUploader builds an upload pipeline. workers bounds in-flight uploads;
// values below 2 select sequential processing.
func NewUploader(blobs blobstore.Store, recs records.Repository, logger logging.Logger, workers int) *Uploader {
	if workers < 1 {
		workers = 1
	}
	return &Uploader{
		blobs:   blobs,
		recs:    recs,
		index:   NewExistenceIndex(recs),
		logger:  logger,
		workers: workers,
	}
}

// Upload processes paths in input order. Existing paths are skipped without
// touching the stores; with dryRun every remaining decision is logged and
// counted but nothing is written. Returns the partial report together with
// the context error when cancelled between items.
func (u *Uploader) Upload(ctx context.Context, paths []string, dryRun bool) (*UploadReport, error) {
	known, err := u.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	u.logger.Info(ctx, "starting upload", "candidates", len(paths), "dry_run", dryRun)

	report := &UploadReport{}
	if u.workers > 1 {
		return u.uploadParallel(ctx, paths, known, dryRun, report)
	}

	total := len(paths)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, reason := u.processOne(ctx, path, known, dryRun)
		u.record(report, path, outcome, reason)
		u.logger.Debug(ctx, "upload progress", "done", i+1, "total", total)
	}
	return report, nil
}

// uploadParallel preserves per-item semantics but not report ordering.
func (u *Uploader) uploadParallel(ctx context.Context, paths []string, known map[string]struct{}, dryRun bool, report *UploadReport) (*UploadReport, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)

	var mu sync.Mutex
	for _, path := range paths {
		path := path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			outcome, reason := u.processOne(gctx, path, known, dryRun)
			if outcome == outcomeFailed && gctx.Err() != nil {
				// Cancellation mid-item is reported once as the batch
				// error, not as a per-item failure.
				return nil
			}
			mu.Lock()
			u.record(report, path, outcome, reason)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, ctx.Err()
}

func (u *Uploader) record(report *UploadReport, path string, outcome uploadOutcome, reason string) {
	switch outcome {
	case outcomeUploaded:
		report.Uploaded = append(report.Uploaded, path)
	case outcomeSkippedExisting:
		report.SkippedExisting = append(report.SkippedExisting, path)
	case outcomeFailed:
		report.Failed = append(report.Failed, ItemFailure{Item: path, Reason: reason})
	}
}

func (u *Uploader) processOne(ctx context.Context, path string, known map[string]struct{}, dryRun bool) (uploadOutcome, string) {
	if _, ok := known[path]; ok {
		u.logger.Info(ctx, "file already uploaded, skipping", "path", path)
		return outcomeSkippedExisting, ""
	}
	if dryRun {
		u.logger.Info(ctx, "dry run: file would be uploaded", "path", path)
		return outcomeUploaded, ""
	}
	if err := u.uploadOne(ctx, path); err != nil {
		u.logger.Warn(ctx, "upload failed", "path", path, "error", err.Error())
		return outcomeFailed, err.Error()
	}
	return outcomeUploaded, ""
}

// uploadOne performs exactly one blob write and one record insert, in that
// order, so a record never exists without its backing blob. The inverse (an
// orphaned blob after a crash between the two steps) is an accepted,
// recoverable leftover.
func (u *Uploader) uploadOne(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	ref, err := u.blobs.Put(ctx, f, fi.Size())
	if err != nil {
		return fmt.Errorf("writing blob: %w", err)
	}

	rec := &models.FileRecord{
		OriginalPath: path,
		StorageRef:   ref,
		SizeBytes:    fi.Size(),
		UploadedAt:   time.Now().UTC(),
	}
	if _, err := u.recs.Insert(ctx, rec); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	u.logger.Info(ctx, "uploaded file", "path", path, "ref", ref, "id", rec.ID)
	return nil
}
