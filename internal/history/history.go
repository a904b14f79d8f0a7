// Package history records which commands were run, per workspace.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

// Run is one recorded command run.
type Run struct {
	ID        int64
	Group     string
	Name      string
	Command   string
	Kind      commands.Kind
	Cwd       string
	SessionID string
	StartedAt time.Time
	// ExitCode is nil until Finish is called; session runs never finish.
	ExitCode *int
}

// Store is the run history of one workspace.
type Store struct {
	db        *sql.DB
	workspace string
	now       func() time.Time
}

// New returns the run history of workspace.
func New(db *sql.DB, workspace string) *Store {
	return &Store{db: db, workspace: workspace, now: time.Now}
}

// Record stores a run of rec and returns its id.
func (s *Store) Record(rec commands.Record, sessionID string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (workspace, grp, name, command, kind, cwd, session_id, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.workspace, rec.Group, rec.Name, rec.Command, rec.Kind.String(),
		nullable(rec.Cwd), nullable(sessionID), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// Finish stores the exit code of a one-shot run.
func (s *Store) Finish(id int64, exitCode int) error {
	if _, err := s.db.Exec("UPDATE runs SET exit_code = ? WHERE id = ?", exitCode, id); err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, grp, name, command, kind, cwd, session_id, started_at, exit_code
		 FROM runs WHERE workspace = ? ORDER BY started_at DESC, id DESC LIMIT ?`,
		s.workspace, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var (
			r        Run
			kind     string
			cwd, sid sql.NullString
			started  string
			exitCode sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Group, &r.Name, &r.Command, &kind, &cwd, &sid, &started, &exitCode); err != nil {
			return nil, err
		}
		if k, err := commands.ParseKind(kind); err == nil {
			r.Kind = k
		}
		r.Cwd, r.SessionID = cwd.String, sid.String
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		if exitCode.Valid {
			c := int(exitCode.Int64)
			r.ExitCode = &c
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear deletes the workspace's history and returns how many runs were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec("DELETE FROM runs WHERE workspace = ?", s.workspace)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
