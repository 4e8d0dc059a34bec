package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS histories (
	user_id    TEXT PRIMARY KEY,
	turns      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteStore persists histories in a local sqlite file, one row per user.
// Suited to single-node deployments without a Redis.
type SQLiteStore struct {
	db      *sql.DB
	persona string
}

func NewSQLiteStore(path, persona string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create histories table: %w", err)
	}
	return &SQLiteStore{db: db, persona: persona}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the stored history, writing and returning the seed when the
// user has no row yet.
func (s *SQLiteStore) Load(ctx context.Context, userID string) (History, error) {
	var turns string
	err := s.db.QueryRowContext(ctx,
		`SELECT turns FROM histories WHERE user_id = ?`, userID).Scan(&turns)
	if errors.Is(err, sql.ErrNoRows) {
		seed := Seed(s.persona)
		if err := s.Save(ctx, userID, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	var h History
	if err := json.Unmarshal([]byte(turns), &h); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return h, nil
}

// Save upserts the full history for the user.
func (s *SQLiteStore) Save(ctx context.Context, userID string, h History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO histories (user_id, turns, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET turns = excluded.turns, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
