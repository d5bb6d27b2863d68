package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"splitplan/internal/config"
	"splitplan/internal/resume"
)

// Store manages task list persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the task database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.TasksDB
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Sync writes the full pipeline for a session at the given step and marks any
// rows beyond the pipeline obsolete. The whole batch goes in one transaction,
// so an observer never sees a half-updated list. Returns the number of active
// pipeline rows written.
func (s *Store) Sync(ctx context.Context, sessionID string, step resume.Step) (int, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("sync tasks: session id required")
	}

	planned := Plan(sessionID, step)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sync tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, task := range planned {
		blockedBy, err := json.Marshal(emptyIfNil(task.BlockedBy))
		if err != nil {
			return 0, fmt.Errorf("marshal blocked_by: %w", err)
		}
		blocks, err := json.Marshal(emptyIfNil(task.Blocks))
		if err != nil {
			return 0, fmt.Errorf("marshal blocks: %w", err)
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO tasks (
                session_id, position, task_key, subject, description,
                active_form, status, blocked_by_json, blocks_json,
                created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(session_id, position) DO UPDATE SET
                task_key = excluded.task_key,
                subject = excluded.subject,
                description = excluded.description,
                active_form = excluded.active_form,
                status = excluded.status,
                blocked_by_json = excluded.blocked_by_json,
                blocks_json = excluded.blocks_json,
                updated_at = excluded.updated_at`,
			task.SessionID,
			task.Position,
			task.Key,
			task.Subject,
			task.Description,
			task.ActiveForm,
			string(task.Status),
			string(blockedBy),
			string(blocks),
			timestamp,
			timestamp,
		)
		if err != nil {
			return 0, fmt.Errorf("upsert task %s: %w", task.Key, err)
		}
	}

	// Rows past the pipeline come from an older, longer list. Mark rather
	// than delete so positions stay stable for observers holding task ids.
	_, err = tx.ExecContext(
		ctx,
		`UPDATE tasks SET subject = ?, status = ?, updated_at = ?
         WHERE session_id = ? AND position > ? AND subject != ?`,
		ObsoleteSubject,
		string(StatusCompleted),
		timestamp,
		sessionID,
		len(planned),
		ObsoleteSubject,
	)
	if err != nil {
		return 0, fmt.Errorf("mark obsolete tasks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sync: %w", err)
	}
	return len(planned), nil
}

// List returns all task rows for a session ordered by position.
func (s *Store) List(ctx context.Context, sessionID string) ([]*Task, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT session_id, position, task_key, subject, description,
                active_form, status, blocked_by_json, blocks_json,
                created_at, updated_at
         FROM tasks WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(rows *sql.Rows) (*Task, error) {
	var (
		task          Task
		status        string
		blockedByJSON string
		blocksJSON    string
		createdAt     string
		updatedAt     string
	)
	err := rows.Scan(
		&task.SessionID,
		&task.Position,
		&task.Key,
		&task.Subject,
		&task.Description,
		&task.ActiveForm,
		&status,
		&blockedByJSON,
		&blocksJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.Status = Status(status)
	if err := json.Unmarshal([]byte(blockedByJSON), &task.BlockedBy); err != nil {
		return nil, fmt.Errorf("decode blocked_by: %w", err)
	}
	if err := json.Unmarshal([]byte(blocksJSON), &task.Blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	if task.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if task.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &task, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
