// Package corpus implements the digest-and-dedup engine over the blob and
// record store collaborators: upload of candidate files, existence
// classification, fingerprint computation, and duplicate reporting.
package corpus

// ItemFailure records one per-item error collected during a batch
// operation. Per-item failures never abort the batch; they end up here.
type ItemFailure struct {
	// Item is the file path (upload) or record id (digest) that failed.
	Item string
	// Reason is a short human-readable cause.
	Reason string
}

// UploadReport summarizes one Upload invocation. In dry-run mode Uploaded
// lists the paths that would have been uploaded.
type UploadReport struct {
	Uploaded        []string
	SkippedExisting []string
	Failed          []ItemFailure
}

// DigestReport summarizes one DigestAll invocation.
type DigestReport struct {
	Processed            int
	SkippedAlreadyHashed int
	Failed               []ItemFailure
}

// Summary is the dedup reporter's output. ExamplePair holds two original
// paths sharing a fingerprint, from the first duplicate group met in scan
// order; it is a best-effort sample for human review, not a canonical
// choice. Nil when there are no duplicates.
type Summary struct {
	TotalFiles      int
	FilesWithHash   int
	DuplicateGroups int
	ExamplePair     []string
}
