// Package tasks mirrors workflow progress into an external, per-session task
// list backed by SQLite.
//
// The sink exists for visibility across context resets: a host observing the
// task list can tell where the pipeline stands without re-running it. The
// store controls exact task state and writes the whole pipeline in one batch,
// so the list is deterministic and never depends on the agent replaying task
// updates. The sink is strictly optional; when no session id is available,
// callers skip syncing and the workflow proceeds on filesystem-derived
// resumption alone.
package tasks
