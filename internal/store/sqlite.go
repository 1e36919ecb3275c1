package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"babylog/internal/event"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists events in a single SQLite file. Instants are stored
// as UTC unix nanoseconds so window queries compare integers.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL,
		baby_id     TEXT NOT NULL,
		type        TEXT NOT NULL,
		occurred_ns INTEGER NOT NULL,
		meta        TEXT NOT NULL DEFAULT '{}',
		UNIQUE (baby_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_baby_time ON events(baby_id, occurred_ns);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, e event.Event) error {
	if err := event.Validate(e); err != nil {
		return err
	}
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return fmt.Errorf("encode meta for event %s: %w", e.ID, err)
	}

	err = appendRetry.do(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO events (id, baby_id, type, occurred_ns, meta) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.BabyID, string(e.Type), e.OccurredAt.UTC().UnixNano(), string(meta),
		)
		return err
	})
	if isUniqueViolation(err) {
		return ErrDuplicateEventID
	}
	return err
}

func (s *SQLiteStore) ListByBaby(ctx context.Context, babyID string, from, to time.Time) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, baby_id, type, occurred_ns, meta
		 FROM events WHERE baby_id = ? AND occurred_ns >= ? AND occurred_ns <= ?
		 ORDER BY occurred_ns ASC, id ASC`,
		babyID, from.UTC().UnixNano(), to.UTC().UnixNano(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *SQLiteStore) Revision(ctx context.Context, babyID string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM events WHERE baby_id = ?`, babyID,
	).Scan(&rev)
	if err != nil {
		return 0, err
	}
	return rev, nil
}

func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	events := []event.Event{}
	for rows.Next() {
		var (
			e        event.Event
			typ      string
			nanos    int64
			metaText string
		)
		if err := rows.Scan(&e.ID, &e.BabyID, &typ, &nanos, &metaText); err != nil {
			return nil, err
		}
		e.Type = event.Type(typ)
		e.OccurredAt = time.Unix(0, nanos).UTC()
		meta, err := event.DecodeMeta(e.Type, json.RawMessage(metaText))
		if err != nil {
			return nil, fmt.Errorf("decode meta for event %s: %w", e.ID, err)
		}
		e.Meta = meta
		events = append(events, e)
	}
	return events, rows.Err()
}
