package tasks

import (
	"strconv"
	"time"

	"splitplan/internal/resume"
)

// Status is the lifecycle of one task row.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ObsoleteSubject replaces the subject of rows beyond the current pipeline.
// Shrinking the list marks extras rather than deleting them, preserving
// history while keeping them out of the active view.
const ObsoleteSubject = "[obsolete]"

// Task is one row of the per-session task list.
type Task struct {
	SessionID   string
	Position    int // 1-based, also the task id within the list
	Key         string
	Subject     string
	Description string
	ActiveForm  string
	Status      Status
	BlockedBy   []string // positions this task waits for
	Blocks      []string // positions waiting for this task
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Definition describes one fixed pipeline task.
type Definition struct {
	Key         string
	Subject     string
	Description string
	ActiveForm  string
}

// Pipeline returns the fixed task sequence in execution order. Positions are
// 1-based in this order. Dependencies are a linear chain: each task is
// blocked by its predecessor.
func Pipeline() []Definition {
	return []Definition{
		{
			Key:         "validate-setup",
			Subject:     "Validate input and set up session",
			Description: "Validate the input document and initialize or resume the session record.",
			ActiveForm:  "Setting up session",
		},
		{
			Key:         "conduct-interview",
			Subject:     "Conduct interview",
			Description: "Interview the user to understand requirements and constraints.",
			ActiveForm:  "Interviewing user",
		},
		{
			Key:         "analyze-splits",
			Subject:     "Analyze splits",
			Description: "Analyze the requirements and propose how to split the project.",
			ActiveForm:  "Analyzing splits",
		},
		{
			Key:         "write-manifest",
			Subject:     "Write split manifest",
			Description: "Discover dependencies between splits and write the manifest document.",
			ActiveForm:  "Writing manifest",
		},
		{
			Key:         "confirm-splits",
			Subject:     "Confirm splits with user",
			Description: "Present the proposed splits for confirmation or revision.",
			ActiveForm:  "Confirming splits",
		},
		{
			Key:         "create-directories",
			Subject:     "Create split directories",
			Description: "Materialize one NN-name directory per confirmed split.",
			ActiveForm:  "Creating directories",
		},
		{
			Key:         "generate-specs",
			Subject:     "Generate spec files",
			Description: "Generate the specification artifact inside each split directory.",
			ActiveForm:  "Generating specs",
		},
		{
			Key:         "output-summary",
			Subject:     "Output summary",
			Description: "Summarize the completed decomposition.",
			ActiveForm:  "Outputting summary",
		},
	}
}

// currentKey maps a resolved pipeline step to the task that should be
// in_progress. Setup and manifest writing are inline phases, never resume
// points; they complete implicitly once a later step is reached.
func currentKey(step resume.Step) string {
	switch step {
	case resume.StepInterview:
		return "conduct-interview"
	case resume.StepSplitAnalysis:
		return "analyze-splits"
	case resume.StepConfirmation:
		return "confirm-splits"
	case resume.StepDirectoryCreation:
		return "create-directories"
	case resume.StepSpecGeneration:
		return "generate-specs"
	case resume.StepComplete:
		return "output-summary"
	default:
		return "validate-setup"
	}
}

// Plan renders the full task batch for a session at the given step: every
// task before the current one completed, the current one in progress, the
// rest pending, each blocked by its predecessor.
func Plan(sessionID string, step resume.Step) []*Task {
	defs := Pipeline()
	current := currentKey(step)
	currentPos := len(defs)
	for i, def := range defs {
		if def.Key == current {
			currentPos = i + 1
			break
		}
	}

	planned := make([]*Task, len(defs))
	for i, def := range defs {
		position := i + 1
		status := StatusPending
		switch {
		case position < currentPos:
			status = StatusCompleted
		case position == currentPos:
			status = StatusInProgress
		}

		task := &Task{
			SessionID:   sessionID,
			Position:    position,
			Key:         def.Key,
			Subject:     def.Subject,
			Description: def.Description,
			ActiveForm:  def.ActiveForm,
			Status:      status,
		}
		if i > 0 {
			task.BlockedBy = []string{strconv.Itoa(i)}
		}
		if i+1 < len(defs) {
			task.Blocks = []string{strconv.Itoa(i + 2)}
		}
		planned[i] = task
	}
	return planned
}
