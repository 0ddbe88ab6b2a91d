// Package sqlite provides durable SQLite persistence for game summary records.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/storage"
)

// Store is a SQLite-backed SummaryStore
type Store struct {
	db *sql.DB
}

// Ensure Store implements the interface
var _ storage.SummaryStore = (*Store)(nil)

// New opens the database at path and runs migrations. Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}

	s := NewFromDB(db)
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewFromDB wraps an existing sql.DB
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the summary table and indexes
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS game_summaries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			game_date INTEGER NOT NULL,
			failed INTEGER NOT NULL DEFAULT 0,
			difficulty INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			time_taken INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_summaries_user_date ON game_summaries(user_id, game_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_game_summaries_date ON game_summaries(game_date DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSummary inserts a summary record
func (s *Store) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_summaries (id, user_id, game_date, failed, difficulty, completed, time_taken, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID, summary.UserID, summary.GameDate.UnixMilli(), summary.Failed,
		int(summary.Difficulty), summary.Completed, summary.TimeTaken, summary.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save summary: %w", err)
	}
	return nil
}

// ListSummariesForPlayer returns a user's summaries, newest first
func (s *Store) ListSummariesForPlayer(ctx context.Context, userID string, limit int) ([]*model.GameSummary, error) {
	return s.query(ctx,
		`SELECT id, user_id, game_date, failed, difficulty, completed, time_taken, created_at
		 FROM game_summaries WHERE user_id = ?
		 ORDER BY game_date DESC, created_at DESC, id DESC LIMIT ?`,
		userID, sqlLimit(limit),
	)
}

// ListSummaries returns all summaries, newest first
func (s *Store) ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	return s.query(ctx,
		`SELECT id, user_id, game_date, failed, difficulty, completed, time_taken, created_at
		 FROM game_summaries
		 ORDER BY game_date DESC, created_at DESC, id DESC LIMIT ?`,
		sqlLimit(limit),
	)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*model.GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]*model.GameSummary, 0)
	for rows.Next() {
		var (
			sum                 model.GameSummary
			gameDate, createdAt int64
			difficulty          int
		)
		if err := rows.Scan(&sum.ID, &sum.UserID, &gameDate, &sum.Failed, &difficulty,
			&sum.Completed, &sum.TimeTaken, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan summary: %w", err)
		}
		sum.GameDate = time.UnixMilli(gameDate).UTC()
		sum.CreatedAt = time.UnixMilli(createdAt).UTC()
		sum.Difficulty = model.Difficulty(difficulty)
		summaries = append(summaries, &sum)
	}
	return summaries, rows.Err()
}

// sqlLimit maps "no cap" onto SQLite's LIMIT -1
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
