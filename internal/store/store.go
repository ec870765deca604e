// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"vaani/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for records and bookmarks.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			symbol TEXT NOT NULL DEFAULT '',
			story_id TEXT NOT NULL DEFAULT '',
			duration_ticks INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			is_new_best INTEGER NOT NULL DEFAULT 0,
			quality_label TEXT NOT NULL DEFAULT '',
			completion_pct INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS record_laps (
			record_id TEXT NOT NULL,
			lap_index INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			PRIMARY KEY (record_id, lap_index)
		);`,
		`CREATE TABLE IF NOT EXISTS story_bookmarks (
			user_id TEXT NOT NULL,
			story_id TEXT NOT NULL,
			PRIMARY KEY (user_id, story_id)
		);`,
		`CREATE TABLE IF NOT EXISTS line_bookmarks (
			user_id TEXT NOT NULL,
			story_id TEXT NOT NULL,
			line_idx INTEGER NOT NULL,
			PRIMARY KEY (user_id, story_id, line_idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_user_kind ON records(user_id, kind, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecord stores one committed record and its laps. The record's
// ID must already be assigned.
func (s *Store) InsertRecord(ctx context.Context, userID string, rec model.Record) (err error) {
	if rec.ID == "" {
		return fmt.Errorf("record id is empty")
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, user_id, kind, symbol, story_id, duration_ticks, created_at, is_new_best, quality_label, completion_pct, stars)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		userID,
		string(rec.Kind),
		rec.Symbol,
		rec.StoryID,
		rec.DurationTicks,
		rec.CreatedAt.Format(time.RFC3339Nano),
		boolToInt(rec.IsNewBest),
		rec.QualityLabel,
		rec.CompletionPct,
		rec.Stars,
	)
	if err != nil {
		return err
	}

	if len(rec.Laps) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO record_laps (record_id, lap_index, ticks) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, lap := range rec.Laps {
			if _, err = stmt.ExecContext(ctx, rec.ID, lap.Index, lap.Ticks); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// DeleteRecord hard-deletes one record and its laps by id.
func (s *Store) DeleteRecord(ctx context.Context, userID, id string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	// Laps go first so the subquery can still see the record; scoping
	// by user keeps a wrong-user delete from stripping someone else's
	// laps.
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM record_laps WHERE record_id IN (SELECT id FROM records WHERE id = ? AND user_id = ?)`, id, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM records WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// ListRecords loads the full snapshot for a user, each list ordered
// oldest first. Rows with an unparsable created_at are skipped, never
// fatal.
func (s *Store) ListRecords(ctx context.Context, userID string) (model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, symbol, story_id, duration_ticks, created_at, is_new_best, quality_label, completion_pct, stars
		 FROM records WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var snap model.Snapshot
	lapIDs := map[string]int{}
	for rows.Next() {
		var rec model.Record
		var kind, createdAt string
		var isNewBest int
		if err := rows.Scan(&rec.ID, &kind, &rec.Symbol, &rec.StoryID, &rec.DurationTicks, &createdAt, &isNewBest, &rec.QualityLabel, &rec.CompletionPct, &rec.Stars); err != nil {
			return model.Snapshot{}, err
		}
		rec.Kind = model.Kind(kind)
		rec.IsNewBest = isNewBest != 0
		parsed, perr := time.Parse(time.RFC3339Nano, createdAt)
		if perr != nil {
			// Malformed timestamps are excluded from display, not fatal.
			continue
		}
		rec.CreatedAt = parsed
		switch rec.Kind {
		case model.KindSound:
			snap.Sounds = append(snap.Sounds, rec)
		case model.KindAlphabet:
			lapIDs[rec.ID] = len(snap.Alphabet)
			snap.Alphabet = append(snap.Alphabet, rec)
		case model.KindStory:
			snap.Stories = append(snap.Stories, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return model.Snapshot{}, err
	}

	if len(lapIDs) > 0 {
		if err := s.attachLaps(ctx, lapIDs, snap.Alphabet); err != nil {
			return model.Snapshot{}, err
		}
	}

	// The SQL ORDER BY compares RFC3339Nano TEXT, which drops trailing
	// fractional zeros and can misorder sub-second timestamps. Sort on
	// the parsed times so list order is chronological.
	sortByCreatedAt(snap.Sounds)
	sortByCreatedAt(snap.Alphabet)
	sortByCreatedAt(snap.Stories)
	return snap, nil
}

func sortByCreatedAt(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}

func (s *Store) attachLaps(ctx context.Context, idx map[string]int, alphabet []model.Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, lap_index, ticks FROM record_laps ORDER BY record_id, lap_index ASC`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var recordID string
		var lap model.Lap
		if err := rows.Scan(&recordID, &lap.Index, &lap.Ticks); err != nil {
			return err
		}
		if i, ok := idx[recordID]; ok {
			alphabet[i].Laps = append(alphabet[i].Laps, lap)
		}
	}
	return rows.Err()
}

// GetBookmarks loads the complete bookmark state for a user.
func (s *Store) GetBookmarks(ctx context.Context, userID string) (model.Bookmarks, error) {
	out := model.NewBookmarks()

	rows, err := s.db.QueryContext(ctx, `SELECT story_id FROM story_bookmarks WHERE user_id = ?`, userID)
	if err != nil {
		return out, err
	}
	for rows.Next() {
		var storyID string
		if err := rows.Scan(&storyID); err != nil {
			closeRows(rows)
			return out, err
		}
		out.Stories[storyID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return out, err
	}
	closeRows(rows)

	rows, err = s.db.QueryContext(ctx, `SELECT story_id, line_idx FROM line_bookmarks WHERE user_id = ?`, userID)
	if err != nil {
		return out, err
	}
	defer closeRows(rows)
	for rows.Next() {
		var storyID string
		var line int
		if err := rows.Scan(&storyID, &line); err != nil {
			return out, err
		}
		if _, ok := out.Lines[storyID]; !ok {
			out.Lines[storyID] = map[int]struct{}{}
		}
		out.Lines[storyID][line] = struct{}{}
	}
	return out, rows.Err()
}

// SetStoryBookmark adds or removes a story-level bookmark.
func (s *Store) SetStoryBookmark(ctx context.Context, userID, storyID string, on bool) error {
	if on {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO story_bookmarks (user_id, story_id) VALUES (?, ?)`, userID, storyID)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM story_bookmarks WHERE user_id = ? AND story_id = ?`, userID, storyID)
	return err
}

// SetLineBookmark adds or removes a line-level bookmark.
func (s *Store) SetLineBookmark(ctx context.Context, userID, storyID string, line int, on bool) error {
	if on {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO line_bookmarks (user_id, story_id, line_idx) VALUES (?, ?, ?)`, userID, storyID, line)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM line_bookmarks WHERE user_id = ? AND story_id = ? AND line_idx = ?`, userID, storyID, line)
	return err
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
