// Package store keeps drill data in SQLite: checkpoint snapshots, the log of
// studied sessions and a small key/value metadata table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/drill/internal/checkpoint"
	"github.com/pavelanni/drill/internal/model"

	_ "modernc.org/sqlite"
)

var _ checkpoint.Storage = (*Store)(nil)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// An in-memory database lives as long as its connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		quiz TEXT NOT NULL,
		policy TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		items INTEGER NOT NULL DEFAULT 0,
		distinct_items INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		correct INTEGER NOT NULL DEFAULT 0,
		checkpoint TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_quiz ON sessions(quiz);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WriteSnapshot inserts or replaces a snapshot.
func (s *Store) WriteSnapshot(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (name, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		name, data, s.now(),
	)
	return err
}

// ReadSnapshot returns the stored bytes, or an error matching fs.ErrNotExist.
func (s *Store) ReadSnapshot(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return data, err
}

// ListSnapshots returns snapshot names, most recently saved first.
func (s *Store) ListSnapshots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM snapshots ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return nil
}

// RecordSession logs a finished, suspended or aborted session and returns
// its ID. An empty r.ID gets a fresh UUID.
func (s *Store) RecordSession(ctx context.Context, r model.SessionResult) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, quiz, policy, status, started_at, ended_at, items, distinct_items, attempts, correct, checkpoint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Quiz, r.Policy, r.Status, r.StartedAt, r.EndedAt, r.Items, r.Distinct, r.Attempts, r.Correct, r.Checkpoint,
	)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

const sessionColumns = `id, quiz, policy, status, started_at, ended_at, items, distinct_items, attempts, correct, checkpoint`

func scanSession(row interface{ Scan(...any) error }) (model.SessionResult, error) {
	var r model.SessionResult
	err := row.Scan(&r.ID, &r.Quiz, &r.Policy, &r.Status, &r.StartedAt, &r.EndedAt,
		&r.Items, &r.Distinct, &r.Attempts, &r.Correct, &r.Checkpoint)
	return r, err
}

// GetSession returns a logged session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (model.SessionResult, error) {
	return scanSession(s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
}

// ListSessions returns logged sessions, newest first. An empty quiz means
// every quiz; limit <= 0 means no limit.
func (s *Store) ListSessions(ctx context.Context, quiz string, limit int) ([]model.SessionResult, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE 1=1`
	var args []any
	if quiz != "" {
		query += ` AND quiz = ?`
		args = append(args, quiz)
	}
	query += ` ORDER BY started_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.SessionResult
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, r)
	}
	return sessions, rows.Err()
}

// QuizStats folds the session log into one row per quiz, ordered by quiz
// name.
func (s *Store) QuizStats(ctx context.Context) ([]model.QuizTotals, error) {
	sessions, err := s.ListSessions(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	byQuiz := make(map[string]*model.QuizTotals)
	var order []string
	for _, r := range sessions {
		qt, ok := byQuiz[r.Quiz]
		if !ok {
			qt = &model.QuizTotals{Quiz: r.Quiz}
			byQuiz[r.Quiz] = qt
			order = append(order, r.Quiz)
		}
		qt.Sessions++
		if r.Status == model.StatusFinished {
			qt.Finished++
		}
		qt.Attempts += r.Attempts
		qt.Correct += r.Correct
		if r.EndedAt.After(qt.LastStudied) {
			qt.LastStudied = r.EndedAt
		}
	}
	slices.Sort(order)
	totals := make([]model.QuizTotals, 0, len(order))
	for _, q := range order {
		totals = append(totals, *byQuiz[q])
	}
	return totals, nil
}

// SessionCount returns the number of logged sessions.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}
