package workflow

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"splitplan/internal/config"
	"splitplan/internal/logging"
	"splitplan/internal/manifest"
	"splitplan/internal/materialize"
	"splitplan/internal/session"
)

// CreateDirsResult reports one materialization pass over the manifest.
type CreateDirsResult struct {
	materialize.Result
	SplitsRoot string   `json:"splits_root"`
	Manifest   []string `json:"manifest"`
}

// CreateDirs decodes the manifest next to the input document and materializes
// its split directories. The pass is idempotent; directories that already
// exist are reported as skipped and their contents left alone.
func CreateDirs(cfg *config.Config, logger *slog.Logger, inputPath string) (*CreateDirsResult, error) {
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
			return nil, Wrap(ErrInputUnavailable, "create-dirs", "read manifest", "no manifest document; run split analysis first", err)
		}
		return nil, Wrap(ErrInputUnavailable, "create-dirs", "read manifest", "", err)
	}
	m, err := manifest.Decode(string(data))
	if err != nil {
		return nil, Wrap(ErrManifestMalformed, "create-dirs", "decode manifest", "", err)
	}

	splitsRoot := store.SplitsRoot(planningDir)
	result, err := materialize.Materialize(m, splitsRoot)
	if err != nil {
		if errors.Is(err, materialize.ErrCollision) {
			return nil, Wrap(ErrDirectoryCollision, "create-dirs", "materialize", "", err)
		}
		return nil, Wrap(ErrStorageUnwritable, "create-dirs", "materialize", "", err)
	}

	logger.Info("split directories materialized",
		"component", "workflow",
		"splits_root", splitsRoot,
		"created", len(result.Created),
		"skipped", len(result.Skipped),
	)
	return &CreateDirsResult{
		Result:     result,
		SplitsRoot: splitsRoot,
		Manifest:   m.DirNames(),
	}, nil
}
