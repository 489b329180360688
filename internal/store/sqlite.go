package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/artgraph/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for identifiers that were never saved
var ErrNotFound = errors.New("record not found")

// SQLiteStore keeps assembled records in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		qid TEXT PRIMARY KEY,
		title TEXT,
		data JSON NOT NULL,
		assembled_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRecord inserts or replaces the record of one artwork
func (s *SQLiteStore) SaveRecord(ctx context.Context, record *model.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	var title sql.NullString
	if record.Article.Title != nil {
		title = sql.NullString{String: *record.Article.Title, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (qid, title, data, assembled_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(qid) DO UPDATE SET
			title = excluded.title,
			data = excluded.data,
			assembled_at = excluded.assembled_at
	`, record.Article.ID.String(), title, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", record.Article.ID, err)
	}
	return nil
}

// Get loads a record by identifier
func (s *SQLiteStore) Get(ctx context.Context, id model.Identifier) (*model.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM records WHERE qid = ?`, id.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record %s: %w", id, err)
	}

	record := &model.Record{}
	if err := json.Unmarshal([]byte(data), record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	return record, nil
}

// Count returns the number of stored records
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Identifiers returns the stored identifiers in ascending order
func (s *SQLiteStore) Identifiers(ctx context.Context) ([]model.Identifier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT qid FROM records ORDER BY qid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query identifiers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []model.Identifier
	for rows.Next() {
		var qid string
		if err := rows.Scan(&qid); err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		ids = append(ids, model.Identifier(qid))
	}
	return ids, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
