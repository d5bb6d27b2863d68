package session

import (
	"time"

	"github.com/google/uuid"
)

// Record represents one decomposition attempt for one input document.
type Record struct {
	SessionID        string    `json:"session_id"`
	InputPath        string    `json:"input_path"`
	InputFingerprint string    `json:"input_fingerprint"`
	PlanningDir      string    `json:"planning_dir"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewRecord builds a fresh record. When sessionID is empty a private one is
// generated so the record stays addressable across invocations; a generated
// id never reaches the external task sink.
func NewRecord(sessionID, inputPath, planningDir, inputFingerprint string) *Record {
	now := time.Now().UTC()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Record{
		SessionID:        sessionID,
		InputPath:        inputPath,
		InputFingerprint: inputFingerprint,
		PlanningDir:      planningDir,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
