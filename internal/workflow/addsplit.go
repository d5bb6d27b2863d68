package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"splitplan/internal/config"
	"splitplan/internal/fileutil"
	"splitplan/internal/logging"
	"splitplan/internal/manifest"
	"splitplan/internal/naming"
	"splitplan/internal/session"
)

// AddSplitResult reports the appended entry. Renamed is true when the
// sanitized name collided and picked up a numeric suffix; callers must
// surface the final name to the user.
type AddSplitResult struct {
	RequestedName string `json:"requested_name"`
	Name          string `json:"name"`
	Index         int    `json:"index"`
	DirName       string `json:"dir_name"`
	Renamed       bool   `json:"renamed"`
	ManifestPath  string `json:"manifest_path"`
}

// AddSplit sanitizes a raw split title, assigns the next free index, resolves
// name collisions against both the manifest and the splits directory, and
// rewrites the manifest block in place. Prose after the block survives.
func AddSplit(cfg *config.Config, logger *slog.Logger, inputPath, rawName string) (*AddSplitResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	resolved, err := validateInput(inputPath)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(cfg)
	planningDir := filepath.Dir(resolved)

	manifestPath := store.ManifestPath(planningDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Wrap(ErrInputUnavailable, "add-split", "read manifest", "no manifest document; run split analysis first", err)
		}
		return nil, Wrap(ErrInputUnavailable, "add-split", "read manifest", "", err)
	}
	m, err := manifest.Decode(string(data))
	if err != nil {
		return nil, Wrap(ErrManifestMalformed, "add-split", "decode manifest", "", err)
	}

	name := naming.Sanitize(rawName, cfg.Naming.MaxNameLength)
	if err := naming.Validate(name); err != nil {
		return nil, Wrap(ErrNamingInvalid, "add-split", "sanitize name", fmt.Sprintf("from %q", rawName), err)
	}

	markers, err := store.Observe(planningDir)
	if err != nil {
		return nil, Wrap(ErrStorageUnwritable, "add-split", "observe planning dir", "", err)
	}

	// Index assignment and collision checks consider both declared and
	// on-disk splits, so a stale directory can never be silently reused.
	known := append(append([]string{}, m.DirNames()...), markers.SplitDirs...)
	indexStr, err := naming.NextIndex(known)
	if err != nil {
		return nil, Wrap(ErrNamingInvalid, "add-split", "assign index", "", err)
	}
	index, _ := strconv.Atoi(indexStr)

	taken := make(map[string]bool, len(known))
	for _, dir := range known {
		taken[dir] = true
		if naming.IsSplitDirName(dir) {
			taken[dir[3:]] = true
		}
	}
	final, renamed, err := naming.Disambiguate(name, func(candidate string) bool {
		return taken[candidate] || taken[fmt.Sprintf("%02d-%s", index, candidate)]
	})
	if err != nil {
		return nil, Wrap(ErrDirectoryCollision, "add-split", "disambiguate name", "", err)
	}

	m.Entries = append(m.Entries, manifest.Entry{Index: index, Name: final})
	doc, err := manifest.ReplaceBlock(string(data), m)
	if err != nil {
		return nil, Wrap(ErrManifestMalformed, "add-split", "rewrite manifest", "", err)
	}
	if err := fileutil.WriteAtomic(manifestPath, []byte(doc), 0o644); err != nil {
		return nil, Wrap(ErrStorageUnwritable, "add-split", "write manifest", "", err)
	}

	result := &AddSplitResult{
		RequestedName: rawName,
		Name:          final,
		Index:         index,
		DirName:       fmt.Sprintf("%02d-%s", index, final),
		Renamed:       renamed,
		ManifestPath:  manifestPath,
	}
	logger.Info("split appended",
		"component", "workflow",
		"dir_name", result.DirName,
		"renamed", renamed,
	)
	return result, nil
}
