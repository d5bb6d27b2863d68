package workflow

import (
	"path/filepath"

	"splitplan/internal/config"
	"splitplan/internal/resume"
	"splitplan/internal/session"
)

// StatusResult is a read-only snapshot of a planning directory. Unlike Setup
// it never creates or rewrites the session record.
type StatusResult struct {
	SessionID        string         `json:"session_id,omitempty"`
	InputPath        string         `json:"input_path"`
	PlanningDir      string         `json:"planning_dir"`
	HasRecord        bool           `json:"has_record"`
	InputFingerprint string         `json:"input_fingerprint,omitempty"`
	Drifted          bool           `json:"drifted"`
	Step             resume.Step    `json:"resume_step"`
	Markers          resume.Markers `json:"markers"`
}

// Status inspects the planning directory and reports the resolved step, the
// stored session record if one exists, and whether the input has drifted
// since the record was written.
func Status(cfg *config.Config, opts SetupOptions) (*StatusResult, error) {
	inputPath, err := validateInput(opts.InputPath)
	if err != nil {
		return nil, err
	}
	planningDir := filepath.Dir(inputPath)

	store := session.NewStore(cfg)
	result := &StatusResult{
		InputPath:   inputPath,
		PlanningDir: planningDir,
	}

	record, err := store.Load(opts.SessionID, inputPath)
	if err != nil {
		return nil, Wrap(ErrStorageUnwritable, "status", "load session record", "", err)
	}
	if record != nil {
		result.HasRecord = true
		result.SessionID = record.SessionID
		result.InputFingerprint = record.InputFingerprint
		changed, _, driftErr := store.CheckDrift(record)
		if driftErr != nil {
			return nil, Wrap(ErrInputUnavailable, "status", "check input drift", "", driftErr)
		}
		result.Drifted = changed
	}

	markers, err := store.Observe(planningDir)
	if err != nil {
		return nil, Wrap(ErrStorageUnwritable, "status", "observe planning dir", "", err)
	}
	result.Markers = markers
	result.Step = resume.Resolve(markers)
	return result, nil
}
