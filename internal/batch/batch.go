package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Batch is an ordered, read-only collection of examples loaded from one
// comma-delimited file.
type Batch struct {
	// Name is the base file name of the batch resource. It is the stable
	// identity the annotation store derives its record file name from.
	Name string

	// Columns is the header row, in file order.
	Columns []string

	// Examples holds the rows in file order; Examples[i].Index == i.
	Examples []Example

	colIndex map[string]int
}

// Load reads a batch file and validates its header.
//
// The file may start with a UTF-8 byte order mark (common when the batch was
// exported from a spreadsheet tool); the BOM is stripped transparently. Rows
// shorter than the header are padded with absent cells rather than rejected —
// a row missing display fields is a per-example data problem, not a reason to
// abort the whole batch.
//
// Returns an error if the file cannot be read, is not valid CSV, has no
// header row, or its header lacks any of RequiredColumns.
func Load(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()

	b, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("load batch %s: %w", path, err)
	}
	b.Name = filepath.Base(path)
	return b, nil
}

// read parses batch content from r. Split out from Load for testability.
func read(r io.Reader) (*Batch, error) {
	// BOMOverride falls back to plain UTF-8 when no BOM is present.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; pad below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("batch file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[col] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("batch header missing required column %q", col)
		}
	}

	b := &Batch{
		Columns:  header,
		colIndex: colIndex,
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(b.Examples), err)
		}

		values := make([]Cell, len(header))
		for i := range header {
			if i < len(row) {
				values[i] = cellOf(row[i])
			}
		}
		b.Examples = append(b.Examples, Example{Index: len(b.Examples), values: values})
	}

	return b, nil
}

// Len returns the number of examples in the batch.
func (b *Batch) Len() int { return len(b.Examples) }

// At returns the example at index i.
// ok is false when i is outside [0, Len).
func (b *Batch) At(i int) (Example, bool) {
	if i < 0 || i >= len(b.Examples) {
		return Example{}, false
	}
	return b.Examples[i], true
}
