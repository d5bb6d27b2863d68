// Package logging constructs slog loggers for splitplan commands.
//
// Two output formats are supported: a console handler emitting
// "TIME LEVEL component: message k=v" lines for interactive use, and a JSON
// handler with normalized ts/level/msg keys for machine consumption. Loggers
// can fan out to stdout/stderr and a per-run log file under the configured
// log directory.
package logging
