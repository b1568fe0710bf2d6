package main

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// CompareProgress orders progress facts: a completed level beats an
// incomplete one, then more lives left wins, then more attempts.
func CompareProgress(a, b LevelProgress) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(a.BestLives, b.BestLives); c != 0 {
		return c
	}
	return cmp.Compare(a.Attempts, b.Attempts)
}

// MergeProgress joins two facts for the same level field by field, keeping
// the better value of each.
func MergeProgress(a, b LevelProgress) LevelProgress {
	return LevelProgress{
		LevelID:   a.LevelID,
		Completed: a.Completed || b.Completed,
		BestLives: max(a.BestLives, b.BestLives),
		Attempts:  max(a.Attempts, b.Attempts),
	}
}

// NeedsSync reports whether local holds anything remote is missing.
func NeedsSync(local, remote LevelProgress) bool {
	return MergeProgress(remote, local) != remote
}

var progressSchema = []string{
	`CREATE TABLE IF NOT EXISTS player (
  id TEXT PRIMARY KEY
)`,
	`CREATE TABLE IF NOT EXISTS level_progress (
  player_id  TEXT    NOT NULL,
  level_id   INTEGER NOT NULL,
  completed  INTEGER NOT NULL DEFAULT 0,
  best_lives INTEGER NOT NULL DEFAULT 0,
  attempts   INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (player_id, level_id)
)`,
}

// ProgressStore persists per-level progress for one player in SQLite.
type ProgressStore struct {
	db       *sql.DB
	playerID string
}

// OpenProgressStore opens (or creates) the database at path. An empty
// playerID reuses the id stored in the database, generating one on first use.
func OpenProgressStore(ctx context.Context, path, playerID string) (*ProgressStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("progress store path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range progressSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	s := &ProgressStore{db: db, playerID: strings.TrimSpace(playerID)}
	if s.playerID == "" {
		if s.playerID, err = s.loadPlayerID(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *ProgressStore) loadPlayerID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM player LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("load player id: %w", err)
	}
	id = uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO player (id) VALUES (?)`, id); err != nil {
		return "", fmt.Errorf("store player id: %w", err)
	}
	return id, nil
}

func (s *ProgressStore) PlayerID() string { return s.playerID }

func (s *ProgressStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record adds one concluded attempt. Completion and best lives only ever
// improve; attempts accumulate.
func (s *ProgressStore) Record(ctx context.Context, fact LevelProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO level_progress (player_id, level_id, completed, best_lives, attempts, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, level_id) DO UPDATE SET
		   completed  = MAX(completed, excluded.completed),
		   best_lives = MAX(best_lives, excluded.best_lives),
		   attempts   = attempts + excluded.attempts,
		   updated_at = excluded.updated_at`,
		s.playerID, fact.LevelID, fact.Completed, fact.BestLives, fact.Attempts, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record progress for level %d: %w", fact.LevelID, err)
	}
	return nil
}

func (s *ProgressStore) Get(ctx context.Context, levelID int) (LevelProgress, bool, error) {
	p := LevelProgress{LevelID: levelID}
	err := s.db.QueryRowContext(ctx,
		`SELECT completed, best_lives, attempts FROM level_progress WHERE player_id = ? AND level_id = ?`,
		s.playerID, levelID,
	).Scan(&p.Completed, &p.BestLives, &p.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return LevelProgress{}, false, nil
	}
	if err != nil {
		return LevelProgress{}, false, fmt.Errorf("get progress for level %d: %w", levelID, err)
	}
	return p, true, nil
}

func (s *ProgressStore) List(ctx context.Context) ([]LevelProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_id, completed, best_lives, attempts FROM level_progress WHERE player_id = ? ORDER BY level_id ASC`,
		s.playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []LevelProgress
	for rows.Next() {
		var p LevelProgress
		if err := rows.Scan(&p.LevelID, &p.Completed, &p.BestLives, &p.Attempts); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Merge folds facts from another copy of the player's progress into the
// store, keeping the better value of every field. It returns how many levels
// changed.
func (s *ProgressStore) Merge(ctx context.Context, facts []LevelProgress) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin merge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	changed := 0
	now := time.Now().UTC().UnixMilli()
	for _, remote := range facts {
		local := LevelProgress{LevelID: remote.LevelID}
		err := tx.QueryRowContext(ctx,
			`SELECT completed, best_lives, attempts FROM level_progress WHERE player_id = ? AND level_id = ?`,
			s.playerID, remote.LevelID,
		).Scan(&local.Completed, &local.BestLives, &local.Attempts)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("read progress for level %d: %w", remote.LevelID, err)
		}
		if !NeedsSync(remote, local) {
			continue
		}
		merged := MergeProgress(local, remote)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO level_progress (player_id, level_id, completed, best_lives, attempts, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (player_id, level_id) DO UPDATE SET
			   completed  = excluded.completed,
			   best_lives = excluded.best_lives,
			   attempts   = excluded.attempts,
			   updated_at = excluded.updated_at`,
			s.playerID, merged.LevelID, merged.Completed, merged.BestLives, merged.Attempts, now,
		)
		if err != nil {
			return 0, fmt.Errorf("merge progress for level %d: %w", remote.LevelID, err)
		}
		changed++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit merge: %w", err)
	}
	return changed, nil
}

func ReadProgressFile(path string) ([]LevelProgress, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read progress file: %w", err)
	}
	var facts []LevelProgress
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("decode progress file: %w", err)
	}
	return facts, nil
}

func WriteProgressFile(path string, facts []LevelProgress) error {
	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	return nil
}
