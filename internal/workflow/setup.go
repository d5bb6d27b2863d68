package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"splitplan/internal/config"
	"splitplan/internal/fingerprint"
	"splitplan/internal/logging"
	"splitplan/internal/resume"
	"splitplan/internal/session"
)

// SetupOptions selects the input document and the externally supplied session
// id, if any. AcceptInputChanges re-baselines the stored fingerprint when the
// input has drifted; without it the drift warning persists on every run.
type SetupOptions struct {
	InputPath          string
	SessionID          string
	AcceptInputChanges bool
}

// SetupResult reports the resolved session and where the pipeline should
// resume. Warnings are advisory; the run proceeds despite them.
type SetupResult struct {
	Mode             string         `json:"mode"` // new or resume
	SessionID        string         `json:"session_id"`
	InputPath        string         `json:"input_path"`
	PlanningDir      string         `json:"planning_dir"`
	InputFingerprint string         `json:"input_fingerprint"`
	Step             resume.Step    `json:"resume_step"`
	Markers          resume.Markers `json:"markers"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// Setup validates the input document, loads or creates the session record,
// and resolves the resume step from planning-directory artifacts. The stored
// record is a hint only; every marker comes from the filesystem.
func Setup(cfg *config.Config, logger *slog.Logger, opts SetupOptions) (*SetupResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	inputPath, err := validateInput(opts.InputPath)
	if err != nil {
		return nil, err
	}

	digest, err := fingerprint.FromFile(inputPath)
	if err != nil {
		return nil, Wrap(ErrInputUnavailable, "setup", "fingerprint input", "", err)
	}
	planningDir := filepath.Dir(inputPath)

	store := session.NewStore(cfg)
	record, err := store.Load(opts.SessionID, inputPath)
	if err != nil {
		return nil, Wrap(ErrStorageUnwritable, "setup", "load session record", "", err)
	}

	result := &SetupResult{
		InputPath:        inputPath,
		PlanningDir:      planningDir,
		InputFingerprint: digest,
	}
	if opts.SessionID == "" {
		result.Warnings = append(result.Warnings, "session namespace unavailable; task sync disabled for this run")
	}

	if record == nil {
		result.Mode = "new"
		record = session.NewRecord(opts.SessionID, inputPath, planningDir, digest)
	} else {
		result.Mode = "resume"
		changed, current, driftErr := store.CheckDrift(record)
		if driftErr != nil {
			return nil, Wrap(ErrInputUnavailable, "setup", "check input drift", "", driftErr)
		}
		// Drift is the caller's decision to resolve: the stored fingerprint
		// stays put, so the warning repeats every run until the caller either
		// accepts the changed input or restarts the session.
		if changed {
			if opts.AcceptInputChanges {
				record.InputFingerprint = current
				result.Warnings = append(result.Warnings, "input changes accepted; fingerprint re-baselined")
			} else {
				result.Warnings = append(result.Warnings, "input document changed since the last run; prior analysis may be stale")
			}
		}
	}
	if err := store.Save(record); err != nil {
		return nil, Wrap(ErrStorageUnwritable, "setup", "save session record", "", err)
	}
	result.SessionID = record.SessionID

	markers, err := store.Observe(planningDir)
	if err != nil {
		return nil, Wrap(ErrStorageUnwritable, "setup", "observe planning dir", "", err)
	}
	result.Markers = markers
	result.Step = resume.Resolve(markers)

	logger.Info("session setup",
		"component", "workflow",
		"mode", result.Mode,
		"session_id", result.SessionID,
		"resume_step", string(result.Step),
		"planning_dir", planningDir,
	)
	return result, nil
}

// validateInput resolves the input path and rejects documents the pipeline
// cannot plan from.
func validateInput(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", Wrap(ErrInputUnavailable, "setup", "validate input", "input path is required", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", Wrap(ErrInputUnavailable, "setup", "resolve input path", "", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", Wrap(ErrInputUnavailable, "setup", "stat input", "", err)
	}
	if info.IsDir() {
		return "", Wrap(ErrInputUnavailable, "setup", "validate input", fmt.Sprintf("%q is a directory", abs), nil)
	}
	if !strings.EqualFold(filepath.Ext(abs), ".md") {
		return "", Wrap(ErrInputUnavailable, "setup", "validate input", fmt.Sprintf("%q is not a markdown document", abs), nil)
	}
	if info.Size() == 0 {
		return "", Wrap(ErrInputUnavailable, "setup", "validate input", fmt.Sprintf("%q is empty", abs), nil)
	}
	return abs, nil
}
