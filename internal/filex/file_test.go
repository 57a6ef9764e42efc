package filex

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles_RecursesIntoSubdirectories(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "sub", "deep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a.txt"), []byte("a"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "sub", "b.txt"), []byte("b"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "sub", "deep", "c.txt"), []byte("c"), 0o640))

	got, err := CollectFiles(tmp)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(tmp, "a.txt"),
		filepath.Join(tmp, "sub", "b.txt"),
		filepath.Join(tmp, "sub", "deep", "c.txt"),
	}, got)
}

func TestCollectFiles_EmptyDirectory(t *testing.T) {
	got, err := CollectFiles(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCollectFiles_MissingDirectoryIsValidationError(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrValidation))
}

func TestCollectFiles_FileArgumentIsValidationError(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o640))

	_, err := CollectFiles(file)
	require.True(t, errors.Is(err, common.ErrValidation))
}
