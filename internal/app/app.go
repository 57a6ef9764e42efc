// Package app wires the stores and the corpus engine together and runs
// the operation selected on the command line.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hashindex/internal/blobstore"
	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/dmitrijs2005/hashindex/internal/config"
	"github.com/dmitrijs2005/hashindex/internal/corpus"
	"github.com/dmitrijs2005/hashindex/internal/filex"
	"github.com/dmitrijs2005/hashindex/internal/hashing"
	"github.com/dmitrijs2005/hashindex/internal/logging"
	"github.com/dmitrijs2005/hashindex/internal/records"
)

type App struct {
	cfg    *config.Config
	logger logging.Logger
	db     *sql.DB
	recs   records.Repository
	blobs  blobstore.Store
}

// New validates the configuration and connects the collaborators. A store
// that cannot be reached is a setup-level fault and fails construction.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewDefault(os.Stdout)

	db, recs, err := records.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("record store init: %w", err)
	}

	blobs, err := blobstore.NewS3Store(ctx, blobstore.S3Options{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init: %w", err)
	}

	return &App{cfg: cfg, logger: logger, db: db, recs: recs, blobs: blobs}, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// initSignalHandler cancels the run context on SIGINT/SIGTERM/SIGQUIT so
// long passes stop between items.
func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run dispatches to the configured operation. The returned error matches
// common.ErrPartialFailure when the operation finished but some items
// failed; the CLI maps that to a non-zero exit.
func (a *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	a.initSignalHandler(cancelFunc)

	switch {
	case a.cfg.Summary:
		return a.runSummary(ctx)
	case a.cfg.Digest:
		return a.runDigest(ctx)
	case a.cfg.Check:
		return a.runCheck(ctx)
	default:
		return a.runUpload(ctx)
	}
}

func (a *App) runUpload(ctx context.Context) error {
	a.logger.Info(ctx, "starting upload process", "directory", a.cfg.Directory, "dry_run", a.cfg.DryRun)

	files, err := filex.CollectFiles(a.cfg.Directory)
	if err != nil {
		return err
	}
	a.logger.Info(ctx, "total files to process", "count", len(files))

	uploader := corpus.NewUploader(a.blobs, a.recs, a.logger, a.cfg.Workers)
	report, err := uploader.Upload(ctx, files, a.cfg.DryRun)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "upload process completed",
		"uploaded", len(report.Uploaded),
		"skipped_existing", len(report.SkippedExisting),
		"failed", len(report.Failed))

	if n := len(report.Failed); n > 0 {
		return fmt.Errorf("%d of %d files failed: %w", n, len(files), common.ErrPartialFailure)
	}
	return nil
}

func (a *App) runCheck(ctx context.Context) error {
	a.logger.Info(ctx, "checking for existing files", "directory", a.cfg.Directory)

	files, err := filex.CollectFiles(a.cfg.Directory)
	if err != nil {
		return err
	}

	index := corpus.NewExistenceIndex(a.recs)
	newPaths, existing, err := index.Classify(ctx, files)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "check completed",
		"new_files", len(newPaths),
		"existing_files", len(existing))
	return nil
}

func (a *App) runDigest(ctx context.Context) error {
	a.logger.Info(ctx, "starting digest pass", "redigest", a.cfg.Redigest)

	pass := corpus.NewDigestPass(a.blobs, a.recs, hashing.New(a.cfg.ChunkSizeBytes), a.logger, a.cfg.Redigest)
	report, err := pass.DigestAll(ctx)
	if err != nil {
		return err
	}

	if n := len(report.Failed); n > 0 {
		for _, f := range report.Failed {
			a.logger.Error(ctx, "record failed to digest", "id", f.Item, "reason", f.Reason)
		}
		return fmt.Errorf("%d records failed: %w", n, common.ErrPartialFailure)
	}
	return nil
}

func (a *App) runSummary(ctx context.Context) error {
	a.logger.Info(ctx, "generating summary of the database")

	reporter := corpus.NewReporter(a.recs, a.logger)
	summary, err := reporter.Summarize(ctx)
	if err != nil {
		return err
	}

	if summary.ExamplePair != nil {
		a.logger.Info(ctx, "example duplicate pair",
			"first", summary.ExamplePair[0],
			"second", summary.ExamplePair[1])
	}
	return nil
}
