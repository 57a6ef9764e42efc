package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// failingReader yields its payload and then an error instead of EOF,
// modeling a stream truncated mid-transfer.
type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}

func TestDigest_MatchesReferenceSum(t *testing.T) {
	data := []byte("hello, corpus")
	want := sha256.Sum256(data)

	got, err := New(0).Digest(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestDigest_ChunkSizeInvariant(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 100_000)

	whole, err := New(len(data)+1).Digest(bytes.NewReader(data))
	require.NoError(t, err)

	for _, size := range []int{1, 7, 4096, DefaultChunkSize} {
		got, err := New(size).Digest(strings.NewReader(string(data)))
		require.NoError(t, err)
		require.Equal(t, whole, got, "chunk size %d changed the digest", size)
	}
}

func TestDigest_EmptyInput(t *testing.T) {
	want := sha256.Sum256(nil)
	got, err := New(0).Digest(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestDigest_TruncatedStreamReturnsNoPartialDigest(t *testing.T) {
	boom := errors.New("connection reset")
	r := &failingReader{r: strings.NewReader("partial content"), err: boom}

	got, err := New(0).Digest(r)
	require.ErrorIs(t, err, boom)
	require.Empty(t, got)
}
