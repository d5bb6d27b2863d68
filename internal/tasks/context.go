package tasks

import (
	"os"
	"strings"
)

// Environment variables consulted when no explicit session id is given.
// EnvTaskListID is set by the user to pin the task list; EnvSessionID is
// exported by the hosting environment for the current session.
const (
	EnvTaskListID = "SPLITPLAN_TASK_LIST_ID"
	EnvSessionID  = "SPLITPLAN_SESSION_ID"
)

// Source records where a resolved session id came from.
type Source string

const (
	SourceFlag        Source = "flag"
	SourceUserEnv     Source = "user_env"
	SourceEnvironment Source = "environment"
	SourceNone        Source = "none"
)

// SessionContext is the resolved task-sink target for one invocation.
type SessionContext struct {
	SessionID string `json:"session_id,omitempty"`
	Source    Source `json:"session_id_source"`

	// UserSpecified is true when the id was pinned explicitly rather than
	// inherited from the environment.
	UserSpecified bool `json:"user_specified"`
}

// ResolveSessionContext picks the task-sink session id for this invocation.
// An explicit id wins, then the user-pinned variable, then the environment.
// An empty result means the sink is unavailable and syncing is skipped.
func ResolveSessionContext(explicit string) SessionContext {
	if id := strings.TrimSpace(explicit); id != "" {
		return SessionContext{SessionID: id, Source: SourceFlag, UserSpecified: true}
	}
	if id := strings.TrimSpace(os.Getenv(EnvTaskListID)); id != "" {
		return SessionContext{SessionID: id, Source: SourceUserEnv, UserSpecified: true}
	}
	if id := strings.TrimSpace(os.Getenv(EnvSessionID)); id != "" {
		return SessionContext{SessionID: id, Source: SourceEnvironment}
	}
	return SessionContext{Source: SourceNone}
}

// Matches reports whether the resolved id equals the one stored in the
// session record. A mismatch is diagnostic only; the record id may be
// internally generated and never shared with the sink.
func (c SessionContext) Matches(recordSessionID string) *bool {
	if c.SessionID == "" || recordSessionID == "" {
		return nil
	}
	matched := c.SessionID == recordSessionID
	return &matched
}
