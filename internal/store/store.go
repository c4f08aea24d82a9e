package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Derived column names appended after the example's original fields,
// in record column order.
const (
	ColTimestamp = "timestamp"
	ColRating    = "rating"
	ColComments  = "comments"
	ColAnnotator = "annotator"
)

// DefaultDir is the annotations area relative to the working directory.
const DefaultDir = "annotations"

// Backend names accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Record is one persisted annotation decision.
//
// Columns and Values carry the example's original fields in batch column
// order (absent cells as empty strings). The schema established by the first
// record appended to a store must match all subsequent records; backends
// reject a mismatched column set rather than writing a ragged row.
type Record struct {
	// Index is the annotated example's ordinal position in the batch.
	Index int

	Columns []string
	Values  []string

	// Timestamp is seconds since the Unix epoch at write time.
	Timestamp float64

	Rating    string
	Comments  string
	Annotator string
}

// Header returns the full record schema: original columns followed by the
// four derived columns.
func (r Record) Header() []string {
	header := make([]string, 0, len(r.Columns)+4)
	header = append(header, r.Columns...)
	return append(header, ColTimestamp, ColRating, ColComments, ColAnnotator)
}

// Store is an append-only annotation record log for one batch identity.
//
// Implementations are single-writer: no locking is provided against another
// process appending to the same resource.
type Store interface {
	// ResumeIndex returns the next index to annotate. With recorded
	// indices present it is max(defaultStart, max(recorded)) + 1;
	// with none it is defaultStart. A restarted session therefore never
	// re-annotates a recorded example and never starts below an
	// explicitly requested index.
	ResumeIndex(ctx context.Context, defaultStart int) (int, error)

	// Append durably writes one record. On error nothing is recorded and
	// the store remains usable for a retry.
	Append(ctx context.Context, rec Record) error

	Close() error
}

// Open creates a store of the named backend for the given batch identity,
// placing the record resource under dir.
func Open(backend, dir, batchName string) (Store, error) {
	switch backend {
	case BackendCSV:
		return OpenCSV(CSVPath(dir, batchName))
	case BackendSQLite:
		return OpenSQLite(SQLitePath(dir, batchName))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// CSVPath derives the CSV record file path for a batch identity.
func CSVPath(dir, batchName string) string {
	return filepath.Join(dir, "annotations_"+stem(batchName)+".csv")
}

// SQLitePath derives the SQLite record file path for a batch identity.
func SQLitePath(dir, batchName string) string {
	return filepath.Join(dir, "annotations_"+stem(batchName)+".db")
}

// stem strips the extension from a batch file name.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
