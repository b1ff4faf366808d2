// Package store handles SQLite persistence of finished tests.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/termotype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// timeLayout is fixed width so stored UTC timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var sessionColumns = []string{
	"id", "started_at", "ended_at", "mode_kind", "mode_value", "words_completed",
	"correct", "incorrect", "total_typed", "duration_ms", "wpm", "cpm", "accuracy", "new_best",
}

// Store wraps SQLite access for session data.
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
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode_kind TEXT NOT NULL,
			mode_value INTEGER NOT NULL,
			words_completed INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			total_typed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			wpm REAL NOT NULL,
			cpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			new_best INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode_kind, mode_value);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished test and returns its id.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	query, args, err := sqlBuilder.Insert("sessions").
		Columns(sessionColumns[1:]...).
		Values(
			rec.StartedAt.UTC().Format(timeLayout),
			rec.EndedAt.UTC().Format(timeLayout),
			rec.ModeKind,
			rec.ModeValue,
			rec.WordsCompleted,
			rec.Correct,
			rec.Incorrect,
			rec.TotalTyped,
			rec.DurationMs,
			rec.WPM,
			rec.CPM,
			rec.Accuracy,
			rec.NewBest,
		).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns sessions matching filter, oldest first. With Last set
// only the most recent sessions are returned.
func (s *Store) ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionRecord, error) {
	query := sqlBuilder.Select(sessionColumns...).From("sessions")
	if filter.ModeKind != "" {
		query = query.Where(squirrel.Eq{"mode_kind": filter.ModeKind})
	}
	if filter.ModeValue > 0 {
		query = query.Where(squirrel.Eq{"mode_value": filter.ModeValue})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"ended_at": filter.Since.UTC().Format(timeLayout)})
	}
	query = query.OrderBy("ended_at DESC", "id DESC")
	if filter.Last > 0 {
		query = query.Limit(uint64(filter.Last))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

// BestByMode returns the highest WPM per mode across all history.
func (s *Store) BestByMode(ctx context.Context) ([]model.ModeBest, error) {
	sqlStr, args, err := sqlBuilder.
		Select("mode_kind", "mode_value", "MAX(wpm)", "COUNT(*)").
		From("sessions").
		GroupBy("mode_kind", "mode_value").
		OrderBy("mode_kind", "mode_value").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ModeBest
	for rows.Next() {
		var b model.ModeBest
		if err := rows.Scan(&b.ModeKind, &b.ModeValue, &b.WPM, &b.Sessions); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		acc, err := s.accuracyAt(ctx, result[i])
		if err != nil {
			return nil, err
		}
		result[i].Accuracy = acc
	}
	return result, nil
}

func (s *Store) accuracyAt(ctx context.Context, b model.ModeBest) (float64, error) {
	sqlStr, args, err := sqlBuilder.Select("accuracy").
		From("sessions").
		Where(squirrel.Eq{"mode_kind": b.ModeKind, "mode_value": b.ModeValue, "wpm": b.WPM}).
		OrderBy("ended_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, err
	}
	var acc float64
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&acc); err != nil {
		return 0, err
	}
	return acc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var startedAt, endedAt string
	if err := row.Scan(
		&rec.ID,
		&startedAt,
		&endedAt,
		&rec.ModeKind,
		&rec.ModeValue,
		&rec.WordsCompleted,
		&rec.Correct,
		&rec.Incorrect,
		&rec.TotalTyped,
		&rec.DurationMs,
		&rec.WPM,
		&rec.CPM,
		&rec.Accuracy,
		&rec.NewBest,
	); err != nil {
		return rec, err
	}
	var err error
	if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return rec, err
	}
	if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
		return rec, err
	}
	return rec, nil
}
