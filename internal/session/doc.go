// Package session persists workflow session records and reconciles them
// against observed filesystem artifacts.
//
// The record on disk is a cache, not the truth: every load re-derives step
// markers from artifact presence in the planning directory, so independently
// invoked processes sharing a session id converge on consistent behavior even
// when a stored record is stale or externally edited. Writes use an atomic
// temp-file-then-rename discipline guarded by a file lock, so a reader never
// observes a torn record.
package session
