// internal/store/store.go
//
// SQLite persistence for the solver service.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Creating the schema idempotently at open time.
//   - Users (for the gated puzzle endpoints), saved puzzles, and a log of
//     solve attempts with their search statistics.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS puzzles (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    grid_text  TEXT NOT NULL,
    user_id    TEXT REFERENCES users(id),
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS solves (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    puzzle_id   TEXT,
    solved      INTEGER NOT NULL,
    nodes       INTEGER NOT NULL,
    backtracks  INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if missing) the database file and applies the
// schema. Relative paths get their parent directory created, so DSNs like
// ./data/app.db work out of the box.
func Open(dsn string) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

/* -------------------------------- users --------------------------------- */

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Store) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE lower(username)=lower(?)`, username,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

/* ------------------------------- puzzles -------------------------------- */

// Puzzle is a saved grid layout in the text format internal/grid parses.
type Puzzle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GridText  string    `json:"gridText"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) SavePuzzle(ctx context.Context, p Puzzle) error {
	var owner any
	if p.UserID != "" {
		owner = p.UserID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO puzzles (id, name, grid_text, user_id, created_at) VALUES (?,?,?,?,?)`,
		p.ID, p.Name, p.GridText, owner, p.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetPuzzle(ctx context.Context, id string) (*Puzzle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, grid_text, COALESCE(user_id,''), created_at FROM puzzles WHERE id=?`, id)
	var p Puzzle
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.GridText, &p.UserID, &created); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &p, nil
}

func (s *Store) ListPuzzles(ctx context.Context, limit int) ([]Puzzle, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, grid_text, COALESCE(user_id,''), created_at
		 FROM puzzles ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Puzzle{}
	for rows.Next() {
		var p Puzzle
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &p.GridText, &p.UserID, &created); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, p)
	}
	return out, rows.Err()
}

/* -------------------------------- solves -------------------------------- */

// SolveRecord logs one solve attempt and its search statistics.
type SolveRecord struct {
	PuzzleID   string `json:"puzzleId,omitempty"`
	Solved     bool   `json:"solved"`
	Nodes      int    `json:"nodes"`
	Backtracks int    `json:"backtracks"`
	DurationMs int    `json:"durationMs"`
}

func (s *Store) RecordSolve(ctx context.Context, r SolveRecord) error {
	solved := 0
	if r.Solved {
		solved = 1
	}
	var puzzle any
	if r.PuzzleID != "" {
		puzzle = r.PuzzleID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solves (puzzle_id, solved, nodes, backtracks, duration_ms) VALUES (?,?,?,?,?)`,
		puzzle, solved, r.Nodes, r.Backtracks, r.DurationMs,
	)
	return err
}

// RecentSolves returns the latest solve attempts, newest first.
func (s *Store) RecentSolves(ctx context.Context, limit int) ([]SolveRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(puzzle_id,''), solved, nodes, backtracks, duration_ms
		 FROM solves ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SolveRecord{}
	for rows.Next() {
		var r SolveRecord
		var solved int
		if err := rows.Scan(&r.PuzzleID, &solved, &r.Nodes, &r.Backtracks, &r.DurationMs); err != nil {
			return nil, err
		}
		r.Solved = solved == 1
		out = append(out, r)
	}
	return out, rows.Err()
}
