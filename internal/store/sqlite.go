package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is an annotation record store backed by an embedded database.
//
// It keeps the same Store contract as the CSV backend but enforces the
// one-record-per-example guarantee structurally: a UNIQUE index on
// example_idx combined with ON CONFLICT DO NOTHING makes a duplicate append
// a silent no-op instead of a second row.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the record database at the given path,
// creating the containing directory when needed.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create annotations dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// ResumeIndex implements Store.
func (s *SQLite) ResumeIndex(ctx context.Context, defaultStart int) (int, error) {
	var maxIdx sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(example_idx) FROM annotations`).Scan(&maxIdx)
	if err != nil {
		return 0, fmt.Errorf("resume scan: %w", err)
	}
	if !maxIdx.Valid {
		return defaultStart, nil
	}
	return max(defaultStart, int(maxIdx.Int64)) + 1, nil
}

// Append implements Store.
//
// The example's original fields are serialized to a JSON object; key order is
// deterministic (sorted) so identical records produce identical rows.
func (s *SQLite) Append(ctx context.Context, rec Record) error {
	fieldsJSON, err := marshalFields(rec)
	if err != nil {
		return fmt.Errorf("append record %d: %w", rec.Index, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotations
		(example_idx, fields, timestamp, rating, comments, annotator)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(example_idx) DO NOTHING
	`,
		rec.Index,
		fieldsJSON,
		rec.Timestamp,
		rec.Rating,
		rec.Comments,
		rec.Annotator,
	)
	if err != nil {
		return fmt.Errorf("append record %d: %w", rec.Index, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// marshalFields serializes the record's original example fields.
func marshalFields(rec Record) (string, error) {
	if len(rec.Columns) != len(rec.Values) {
		return "", fmt.Errorf("fields mismatch: %d columns, %d values", len(rec.Columns), len(rec.Values))
	}
	fields := make(map[string]string, len(rec.Columns))
	for i, col := range rec.Columns {
		fields[col] = rec.Values[i]
	}
	// encoding/json sorts map keys, giving a canonical serialization.
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}
