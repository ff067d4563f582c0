package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"tracky/internal/modules/tracker/domain"

	_ "modernc.org/sqlite"
)

const currentKey = "current"

type SQLiteStateStore struct {
	db *sql.DB
}

func NewSQLiteStateStore(dbPath string) (*SQLiteStateStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStateStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStateStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS trackers (
  title TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS logs (
  tracker_title TEXT NOT NULL REFERENCES trackers(title) ON DELETE CASCADE,
  seq INTEGER NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER,
  notes TEXT,
  PRIMARY KEY (tracker_title, seq)
);
CREATE TABLE IF NOT EXISTS state (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tracker tables: %w", err)
	}
	return nil
}

func (s *SQLiteStateStore) Load(ctx context.Context) (*domain.App, error) {
	rec := stateRecord{Trackers: map[string]trackerRecord{}}

	rows, err := s.db.QueryContext(ctx, `SELECT title FROM trackers`)
	if err != nil {
		return nil, fmt.Errorf("query trackers: %w", err)
	}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tracker: %w", err)
		}
		rec.Trackers[title] = trackerRecord{Title: title, Logs: []logRecord{}}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate trackers: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close tracker rows: %w", err)
	}

	logRows, err := s.db.QueryContext(ctx, `SELECT tracker_title, start_time, end_time, notes FROM logs ORDER BY tracker_title, seq`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer logRows.Close()
	for logRows.Next() {
		var (
			title string
			start int64
			end   sql.NullInt64
			notes sql.NullString
		)
		if err := logRows.Scan(&title, &start, &end, &notes); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		tr, ok := rec.Trackers[title]
		if !ok {
			continue
		}
		l := logRecord{StartTime: start}
		if end.Valid {
			v := end.Int64
			l.EndTime = &v
		}
		if notes.Valid {
			v := notes.String
			l.Notes = &v
		}
		tr.Logs = append(tr.Logs, l)
		rec.Trackers[title] = tr
	}
	if err := logRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}

	var current string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, currentKey).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("query current: %w", err)
	default:
		rec.Current = &current
	}
	return fromRecord(rec)
}

// Save replaces the stored snapshot in a single transaction.
func (s *SQLiteStateStore) Save(ctx context.Context, app *domain.App) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM logs`, `DELETE FROM trackers`, `DELETE FROM state`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
	}

	rec := toRecord(app)
	for title, tr := range rec.Trackers {
		if _, err = tx.ExecContext(ctx, `INSERT INTO trackers (title) VALUES (?)`, title); err != nil {
			return fmt.Errorf("insert tracker %q: %w", title, err)
		}
		for seq, l := range tr.Logs {
			var end sql.NullInt64
			if l.EndTime != nil {
				end = sql.NullInt64{Int64: *l.EndTime, Valid: true}
			}
			var notes sql.NullString
			if l.Notes != nil {
				notes = sql.NullString{String: *l.Notes, Valid: true}
			}
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO logs (tracker_title, seq, start_time, end_time, notes) VALUES (?, ?, ?, ?, ?)`,
				title, seq, l.StartTime, end, notes,
			); err != nil {
				return fmt.Errorf("insert log %q/%d: %w", title, seq, err)
			}
		}
	}
	if rec.Current != nil {
		if _, err = tx.ExecContext(ctx, `INSERT INTO state (key, value) VALUES (?, ?)`, currentKey, *rec.Current); err != nil {
			return fmt.Errorf("insert current: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}
