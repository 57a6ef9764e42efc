package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ref, err := m.Put(ctx, strings.NewReader("payload"), 7)
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	rc, err := m.Get(ctx, ref)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestMemory_GetUnknownRefIsNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "no-such-ref")
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestMemory_DeleteLeavesDanglingRef(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ref, err := m.Put(ctx, strings.NewReader("x"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())

	m.Delete(ref)
	require.Equal(t, 0, m.Len())

	_, err = m.Get(ctx, ref)
	require.True(t, errors.Is(err, common.ErrNotFound))
}
