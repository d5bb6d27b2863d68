// Package resume maps the artifact-presence vector observed on disk to the
// pipeline step execution should continue from.
//
// The resolver is a pure function: it never touches the filesystem and never
// trusts a stored step pointer. Conditions are evaluated from the earliest
// pipeline stage to the latest so that an in-between interruption resolves to
// the correct next action, not the furthest-advanced one.
package resume

// Step names one pipeline phase.
type Step string

const (
	StepInterview         Step = "interview"
	StepSplitAnalysis     Step = "split-analysis"
	StepConfirmation      Step = "confirmation"
	StepDirectoryCreation Step = "directory-creation"
	StepSpecGeneration    Step = "spec-generation"
	StepComplete          Step = "complete"
)

// Steps returns the pipeline phases in execution order.
func Steps() []Step {
	return []Step{
		StepInterview,
		StepSplitAnalysis,
		StepConfirmation,
		StepDirectoryCreation,
		StepSpecGeneration,
		StepComplete,
	}
}

// Ordinal returns the position of a step in the pipeline, or -1 for an
// unknown step.
func (s Step) Ordinal() int {
	for i, step := range Steps() {
		if step == s {
			return i
		}
	}
	return -1
}

// Markers is the derived view of which pipeline steps have produced their
// expected artifact. It is recomputed from disk on every load; nothing in it
// is authoritative beyond the observation itself.
type Markers struct {
	// InterviewPresent is true when the interview transcript exists and is
	// non-empty.
	InterviewPresent bool `json:"interview_present"`
	// ManifestPresent is true when the manifest document exists and decodes.
	ManifestPresent bool `json:"manifest_present"`
	// ManifestDirs are the NN-name identifiers the manifest declares, in
	// declaration order. Empty when the manifest is absent or malformed.
	ManifestDirs []string `json:"manifest_dirs"`
	// SplitDirs are the valid NN-name directories observed under the splits
	// root, sorted by index.
	SplitDirs []string `json:"split_dirs"`
	// SplitsWithSpec is the subset of SplitDirs containing a spec artifact.
	SplitsWithSpec []string `json:"splits_with_spec"`
}

// MissingDirs returns manifest-declared directories not yet present on disk.
func (m Markers) MissingDirs() []string {
	present := make(map[string]struct{}, len(m.SplitDirs))
	for _, dir := range m.SplitDirs {
		present[dir] = struct{}{}
	}
	var missing []string
	for _, dir := range m.ManifestDirs {
		if _, ok := present[dir]; !ok {
			missing = append(missing, dir)
		}
	}
	return missing
}

// Resolve maps observed artifacts to the next pipeline step. First matching
// rule wins.
func Resolve(m Markers) Step {
	switch {
	case !m.InterviewPresent:
		return StepInterview
	case !m.ManifestPresent:
		return StepSplitAnalysis
	case len(m.SplitDirs) == 0:
		return StepConfirmation
	case len(m.MissingDirs()) > 0:
		return StepDirectoryCreation
	case len(m.SplitsWithSpec) < len(m.SplitDirs):
		return StepSpecGeneration
	default:
		return StepComplete
	}
}
