package corpus

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hashindex/internal/blobstore"
	"github.com/dmitrijs2005/hashindex/internal/records"
)

func writeFiles(t *testing.T, names map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o640))
		paths = append(paths, p)
	}
	return dir, paths
}

func TestUpload_WritesBlobAndRecordPerFile(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	blobs := blobstore.NewMemory()
	repo := records.NewMemoryRepository()

	u := NewUploader(blobs, repo, testLogger(), 1)
	report, err := u.Upload(context.Background(), paths, false)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, 2)
	require.Empty(t, report.SkippedExisting)
	require.Empty(t, report.Failed)
	require.Equal(t, 2, blobs.Len())

	n, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	// Every record's storage ref must resolve and its fingerprint start null.
	cur, err := repo.Scan(context.Background(), records.ScanOptions{})
	require.NoError(t, err)
	defer cur.Close()
	for cur.Next() {
		rec := cur.Record()
		require.Nil(t, rec.Fingerprint)
		require.False(t, rec.UploadedAt.IsZero())
		rc, err := blobs.Get(context.Background(), rec.StorageRef)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
	}
	require.NoError(t, cur.Err())
}

func TestUpload_DryRunWritesNothing(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	blobs := blobstore.NewMemory()
	repo := records.NewMemoryRepository()

	u := NewUploader(blobs, repo, testLogger(), 1)
	report, err := u.Upload(context.Background(), paths, true)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, 2, "dry run reports simulated uploads")
	require.Empty(t, report.Failed)
	require.Equal(t, 0, blobs.Len())

	n, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUpload_SkipsExistingPaths(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.txt": "alpha"})
	blobs := blobstore.NewMemory()
	repo := records.NewMemoryRepository()
	insertRecord(t, repo, paths[0], "ref-old")

	u := NewUploader(blobs, repo, testLogger(), 1)
	report, err := u.Upload(context.Background(), paths, false)
	require.NoError(t, err)

	require.Empty(t, report.Uploaded)
	require.Equal(t, paths, report.SkippedExisting)
	require.Equal(t, 0, blobs.Len(), "skip must not touch the blob store")
}

func TestUpload_SingleFailureDoesNotAbortBatch(t *testing.T) {
	_, good := writeFiles(t, map[string]string{"a.txt": "alpha", "c.txt": "gamma"})
	missing := filepath.Join(t.TempDir(), "b.txt")
	paths := []string{good[0], missing, good[1]}

	blobs := blobstore.NewMemory()
	repo := records.NewMemoryRepository()

	u := NewUploader(blobs, repo, testLogger(), 1)
	report, err := u.Upload(context.Background(), paths, false)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, 2)
	require.Len(t, report.Failed, 1)
	require.Equal(t, missing, report.Failed[0].Item)
	require.NotEmpty(t, report.Failed[0].Reason)

	n, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), n, "store must contain exactly the two good records")
}

func TestUpload_CancelledContextStopsBetweenItems(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.txt": "alpha"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewUploader(blobstore.NewMemory(), records.NewMemoryRepository(), testLogger(), 1)
	report, err := u.Upload(ctx, paths, false)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	require.Empty(t, report.Uploaded)
}

// cancellingStore aborts the batch on the first write, modeling shutdown
// arriving while uploads are in flight.
type cancellingStore struct {
	blobstore.Store
	cancel context.CancelFunc
}

func (s *cancellingStore) Put(ctx context.Context, r io.Reader, size int64) (string, error) {
	s.cancel()
	return "", ctx.Err()
}

func TestUpload_ParallelCancelRecordsNoItemFailures(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.txt": "alpha", "b.txt": "beta", "c.txt": "gamma"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobs := &cancellingStore{Store: blobstore.NewMemory(), cancel: cancel}
	u := NewUploader(blobs, records.NewMemoryRepository(), testLogger(), 2)

	report, err := u.Upload(ctx, paths, false)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Failed, "cancelled items must not show up as per-item failures")
	require.Empty(t, report.Uploaded)
}

func TestUpload_ParallelWorkersMatchSequentialOutcome(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files[name+".txt"] = "content-" + name
	}
	_, paths := writeFiles(t, files)

	blobs := blobstore.NewMemory()
	repo := records.NewMemoryRepository()

	u := NewUploader(blobs, repo, testLogger(), 4)
	report, err := u.Upload(context.Background(), paths, false)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, len(paths))
	require.Empty(t, report.Failed)
	require.Equal(t, len(paths), blobs.Len())

	n, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(len(paths)), n)
}
