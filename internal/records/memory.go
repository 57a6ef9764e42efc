package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/dmitrijs2005/hashindex/internal/models"
)

// MemoryRepository is an in-memory Repository used by corpus-level tests.
// Scans iterate a snapshot taken at open time, mirroring the
// eventually-consistent semantics of a real store cursor.
type MemoryRepository struct {
	mu      sync.Mutex
	order   []string
	byID    map[string]*models.FileRecord
	nextErr error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.FileRecord)}
}

// FailNextWith makes the next operation return err once. Used by tests to
// model transient store faults.
func (m *MemoryRepository) FailNextWith(err error) {
	m.mu.Lock()
	m.nextErr = err
	m.mu.Unlock()
}

func (m *MemoryRepository) takeErr() error {
	err := m.nextErr
	m.nextErr = nil
	return err
}

func (m *MemoryRepository) Insert(ctx context.Context, rec *models.FileRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	stored := *rec
	stored.ID = id
	m.byID[id] = &stored
	m.order = append(m.order, id)
	rec.ID = id
	return id, nil
}

func (m *MemoryRepository) UpdateFingerprint(ctx context.Context, id, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}

	rec, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	fp := fingerprint
	rec.Fingerprint = &fp
	return nil
}

func (m *MemoryRepository) FindByPath(ctx context.Context, path string) (*models.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}

	for _, id := range m.order {
		if m.byID[id].OriginalPath == path {
			copied := *m.byID[id]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("path %s: %w", path, common.ErrNotFound)
}

func (m *MemoryRepository) ListPaths(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(m.order))
	for _, id := range m.order {
		paths = append(paths, m.byID[id].OriginalPath)
	}
	return paths, nil
}

func (m *MemoryRepository) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.order)), nil
}

func (m *MemoryRepository) Scan(ctx context.Context, opts ScanOptions) (Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}

	snapshot := make([]*models.FileRecord, 0, len(m.order))
	for _, id := range m.order {
		rec := m.byID[id]
		if opts.OnlyMissingFingerprint && rec.HasFingerprint() {
			continue
		}
		copied := *rec
		snapshot = append(snapshot, &copied)
	}
	return &memoryCursor{records: snapshot}, nil
}

// Get returns a copy of a stored record, for test assertions.
func (m *MemoryRepository) Get(id string) (*models.FileRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	copied := *rec
	return &copied, true
}

type memoryCursor struct {
	records []*models.FileRecord
	pos     int
	cur     *models.FileRecord
}

func (c *memoryCursor) Next() bool {
	if c.pos >= len(c.records) {
		return false
	}
	c.cur = c.records[c.pos]
	c.pos++
	return true
}

func (c *memoryCursor) Record() *models.FileRecord { return c.cur }
func (c *memoryCursor) Err() error                 { return nil }
func (c *memoryCursor) Close() error               { return nil }
