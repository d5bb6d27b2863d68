package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"splitplan/internal/config"
	"splitplan/internal/fileutil"
	"splitplan/internal/fingerprint"
	"splitplan/internal/manifest"
	"splitplan/internal/naming"
	"splitplan/internal/resume"
)

// Store manages session record persistence under the configured state
// directory and derives step markers from planning-directory artifacts.
type Store struct {
	cfg *config.Config
}

// NewStore constructs a session store.
func NewStore(cfg *config.Config) *Store {
	return &Store{cfg: cfg}
}

// sessionsDir is where one JSON record per (session_id, input_path) lives.
func (s *Store) sessionsDir() string {
	return filepath.Join(s.cfg.Paths.StateDir, "sessions")
}

func (s *Store) recordPath(sessionID, inputPath string) string {
	return filepath.Join(s.sessionsDir(), sessionID+"-"+inputKey(inputPath)+".json")
}

// inputKey collapses an absolute input path into a short stable token so two
// unrelated documents sharing a session id never collide on one record.
func inputKey(inputPath string) string {
	sum := sha256.Sum256([]byte(inputPath))
	return hex.EncodeToString(sum[:])[:12]
}

// Load returns the stored record for (sessionID, inputPath), or nil when none
// exists. With an empty sessionID the state directory is scanned for a record
// matching the input path, which recovers sessions created under a generated
// id.
func (s *Store) Load(sessionID, inputPath string) (*Record, error) {
	if sessionID != "" {
		return s.loadFile(s.recordPath(sessionID, inputPath))
	}

	entries, err := os.ReadDir(s.sessionsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		record, err := s.loadFile(filepath.Join(s.sessionsDir(), entry.Name()))
		if err != nil || record == nil {
			continue // a corrupt record is a stale hint, not a fatal condition
		}
		if record.InputPath == inputPath {
			return record, nil
		}
	}
	return nil, nil
}

func (s *Store) loadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session record: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode session record %s: %w", path, err)
	}
	return &record, nil
}

// Save persists a record with an atomic replace: write to a temp file in the
// same directory, fsync, then rename into place. A crash mid-write never
// leaves a half-written record observable by a subsequent Load. A sibling
// lock file serializes concurrent writers.
func (s *Store) Save(record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if record.SessionID == "" {
		return errors.New("record has no session id")
	}
	if err := os.MkdirAll(s.sessionsDir(), 0o755); err != nil {
		return fmt.Errorf("create sessions directory: %w", err)
	}

	record.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	path := s.recordPath(record.SessionID, record.InputPath)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	return fileutil.WriteAtomic(path, data, 0o644)
}

// InterviewPath returns the interview transcript location for a planning dir.
func (s *Store) InterviewPath(planningDir string) string {
	return filepath.Join(planningDir, s.cfg.Workflow.InterviewFile)
}

// ManifestPath returns the manifest document location for a planning dir.
func (s *Store) ManifestPath(planningDir string) string {
	return filepath.Join(planningDir, s.cfg.Workflow.ManifestFile)
}

// SplitsRoot returns the directory split directories are materialized under.
func (s *Store) SplitsRoot(planningDir string) string {
	return filepath.Join(planningDir, s.cfg.Workflow.SplitsDir)
}

// SpecPath returns the specification artifact location inside a split dir.
func (s *Store) SpecPath(planningDir, splitDir string) string {
	return filepath.Join(s.SplitsRoot(planningDir), splitDir, s.cfg.Workflow.SpecFile)
}

// Observe re-derives the step markers from planning-directory artifacts. The
// filesystem is the ultimate source of truth; nothing from a stored record
// feeds this.
func (s *Store) Observe(planningDir string) (resume.Markers, error) {
	var markers resume.Markers

	if info, err := os.Stat(s.InterviewPath(planningDir)); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		markers.InterviewPresent = true
	}

	if data, err := os.ReadFile(s.ManifestPath(planningDir)); err == nil {
		if m, decodeErr := manifest.Decode(string(data)); decodeErr == nil {
			markers.ManifestPresent = true
			markers.ManifestDirs = m.DirNames()
		}
	}

	splitsRoot := s.SplitsRoot(planningDir)
	entries, err := os.ReadDir(splitsRoot)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return markers, fmt.Errorf("scan splits root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !naming.IsSplitDirName(entry.Name()) {
			continue
		}
		markers.SplitDirs = append(markers.SplitDirs, entry.Name())
	}
	sort.Slice(markers.SplitDirs, func(i, j int) bool {
		return naming.SplitIndex(markers.SplitDirs[i]) < naming.SplitIndex(markers.SplitDirs[j])
	})

	for _, dir := range markers.SplitDirs {
		if info, err := os.Stat(s.SpecPath(planningDir, dir)); err == nil && info.Mode().IsRegular() {
			markers.SplitsWithSpec = append(markers.SplitsWithSpec, dir)
		}
	}

	return markers, nil
}

// CheckDrift recomputes the input fingerprint and compares it against the
// stored one. A mismatch is a warning condition for the caller, not a hard
// failure; the returned digest lets the caller re-baseline on consent.
func (s *Store) CheckDrift(record *Record) (bool, string, error) {
	current, err := fingerprint.FromFile(record.InputPath)
	if err != nil {
		return false, "", err
	}
	return record.InputFingerprint != "" && current != record.InputFingerprint, current, nil
}
