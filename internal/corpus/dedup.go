package corpus

import (
	"context"

	"github.com/dmitrijs2005/hashindex/internal/logging"
	"github.com/dmitrijs2005/hashindex/internal/records"
)

// Reporter groups stored records by fingerprint and summarizes duplicates.
// It only reads the record store; blobs are never touched.
type Reporter struct {
	recs   records.Repository
	logger logging.Logger
}

func NewReporter(recs records.Repository, logger logging.Logger) *Reporter {
	return &Reporter{recs: recs, logger: logger}
}

// Summarize scans all records once. Records without a fingerprint count
// toward TotalFiles but take no part in grouping, so an incomplete digest
// pass shrinks FilesWithHash rather than hiding files. The duplicate scan
// is a snapshot: concurrent writers make it eventually consistent at best,
// which is accepted.
func (r *Reporter) Summarize(ctx context.Context) (*Summary, error) {
	cur, err := r.recs.Scan(ctx, records.ScanOptions{NoIdleTimeout: true})
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	summary := &Summary{}
	groups := make(map[string][]string)

	for cur.Next() {
		rec := cur.Record()
		summary.TotalFiles++
		if !rec.HasFingerprint() {
			continue
		}
		summary.FilesWithHash++

		fp := *rec.Fingerprint
		groups[fp] = append(groups[fp], rec.OriginalPath)
		// First group to reach size two, in scan order, supplies the example.
		if len(groups[fp]) == 2 && summary.ExamplePair == nil {
			summary.ExamplePair = []string{groups[fp][0], groups[fp][1]}
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	for _, paths := range groups {
		if len(paths) >= 2 {
			summary.DuplicateGroups++
		}
	}

	r.logger.Info(ctx, "summary",
		"total_files", summary.TotalFiles,
		"files_with_hash", summary.FilesWithHash,
		"duplicate_groups", summary.DuplicateGroups)
	return summary, nil
}
