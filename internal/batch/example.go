package batch

import "strings"

// Required column names every batch must carry.
// Rows may have additional pass-through columns; those are preserved in
// column order and copied verbatim into annotation records.
const (
	ColExtract  = "extract"
	ColClue     = "clue"
	ColAnswer   = "answer"
	ColCategory = "new_category"
)

// RequiredColumns lists the columns a batch file must declare in its header.
var RequiredColumns = []string{ColExtract, ColClue, ColAnswer, ColCategory}

// Cell is one table cell that may be absent.
//
// The batch format cannot distinguish an empty cell from a missing one, so a
// cell whose content is empty or whitespace-only loads as absent
// (Valid=false). Code that displays or scores cell text must check Valid
// first.
type Cell struct {
	Text  string
	Valid bool
}

// String returns the cell text, or "" for an absent cell.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Text
}

// cellOf builds a Cell from raw file content.
func cellOf(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	return Cell{Text: raw, Valid: true}
}

// Example is one row of the input batch.
//
// Index is the row's ordinal position (0-based), unique within the batch and
// immutable. Values are aligned with the batch's Columns slice; rows shorter
// than the header are padded with absent cells.
type Example struct {
	Index  int
	values []Cell
}

// Cell returns the cell in the named column, looked up through the owning
// batch's column order. Unknown columns return an absent cell.
func (b *Batch) Cell(ex Example, column string) Cell {
	idx, ok := b.colIndex[column]
	if !ok || idx >= len(ex.values) {
		return Cell{}
	}
	return ex.values[idx]
}

// Extract returns the example's source passage.
func (b *Batch) Extract(ex Example) Cell { return b.Cell(ex, ColExtract) }

// Clue returns the machine-generated text being rated.
func (b *Batch) Clue(ex Example) Cell { return b.Cell(ex, ColClue) }

// Answer returns the example's answer field.
func (b *Batch) Answer(ex Example) Cell { return b.Cell(ex, ColAnswer) }

// Category returns the example's category field.
func (b *Batch) Category(ex Example) Cell { return b.Cell(ex, ColCategory) }

// Values returns the example's cells in batch column order.
// The returned slice is the example's backing storage; callers must not
// modify it.
func (ex Example) Values() []Cell { return ex.values }
