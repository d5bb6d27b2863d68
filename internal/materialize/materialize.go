// Package materialize turns a validated manifest into split directories on
// disk.
//
// The operation is idempotent: an entry whose exact NN-name directory already
// exists is skipped, never overwritten, so a second pass over the same
// manifest creates nothing. A pre-flight check on the splits root avoids
// partial materialization when the root itself is unusable.
package materialize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"splitplan/internal/manifest"
)

// ErrCollision marks a non-directory path blocking a split directory.
var ErrCollision = errors.New("path collision")

// Result reports which directories a materialization pass created or skipped.
type Result struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// Materialize creates one directory per manifest entry under splitsRoot, in
// index order. Existing directories are treated as already-materialized and
// recorded in Skipped. The splits root is created first; if that fails, no
// directory is touched.
func Materialize(m *manifest.Manifest, splitsRoot string) (Result, error) {
	var result Result
	if m == nil || len(m.Entries) == 0 {
		return result, fmt.Errorf("manifest has no entries")
	}

	if err := os.MkdirAll(splitsRoot, 0o755); err != nil {
		return result, fmt.Errorf("create splits root %q: %w", splitsRoot, err)
	}

	entries := make([]manifest.Entry, len(m.Entries))
	copy(entries, m.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	for _, entry := range entries {
		dirName := entry.DirName()
		path := filepath.Join(splitsRoot, dirName)

		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			result.Skipped = append(result.Skipped, dirName)
			continue
		case err == nil:
			return result, fmt.Errorf("%w: %q exists and is not a directory", ErrCollision, path)
		}

		if err := os.Mkdir(path, 0o755); err != nil {
			return result, fmt.Errorf("create split directory %q: %w", dirName, err)
		}
		result.Created = append(result.Created, dirName)
	}

	return result, nil
}
