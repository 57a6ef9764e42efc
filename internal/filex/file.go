// Package filex provides filesystem helpers for collecting upload candidates.
package filex

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/hashindex/internal/common"
)

// CollectFiles walks dir recursively and returns the paths of all regular
// files, in walk order. The returned paths include dir as written by the
// caller (no normalization beyond filepath.Join).
func CollectFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot stat %s: %v", common.ErrValidation, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrValidation, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return files, nil
}
