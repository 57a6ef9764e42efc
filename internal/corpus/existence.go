package corpus

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hashindex/internal/records"
)

// ExistenceIndex classifies candidate paths as new or already present by
// comparing them against the original paths recorded in the store.
type ExistenceIndex struct {
	records records.Repository
}

func NewExistenceIndex(r records.Repository) *ExistenceIndex {
	return &ExistenceIndex{records: r}
}

// Snapshot loads every known original path in one pass over the record
// store. The result reflects the store at the moment of the call; a
// concurrent external writer can race it, which callers accept.
func (x *ExistenceIndex) Snapshot(ctx context.Context) (map[string]struct{}, error) {
	paths, err := x.records.ListPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading known paths: %w", err)
	}
	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}
	return known, nil
}

// Classify splits candidates into new and existing, preserving candidate
// order. Each candidate is classified independently, so duplicates within
// the input simply appear twice in the output.
func (x *ExistenceIndex) Classify(ctx context.Context, candidates []string) (newPaths, existing []string, err error) {
	known, err := x.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range candidates {
		if _, ok := known[c]; ok {
			existing = append(existing, c)
		} else {
			newPaths = append(newPaths, c)
		}
	}
	return newPaths, existing, nil
}
