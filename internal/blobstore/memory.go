package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/hashindex/internal/common"
)

// Memory is a map-backed Store used in tests and as a stand-in during
// development. Safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, r io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading blob content: %w", err)
	}

	ref := uuid.NewString()
	m.mu.Lock()
	m.blobs[ref] = data
	m.mu.Unlock()
	return ref, nil
}

func (m *Memory) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	m.mu.Lock()
	data, ok := m.blobs[ref]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", ref, common.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete drops a blob, leaving any record that references it dangling.
// Used by tests to model data corruption.
func (m *Memory) Delete(ref string) {
	m.mu.Lock()
	delete(m.blobs, ref)
	m.mu.Unlock()
}

// Len reports the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
