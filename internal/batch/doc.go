// Package batch loads the input example batch for an annotation session.
//
// A batch is a comma-delimited file with a header row. Every row becomes an
// Example whose ordinal position in the file is its index. Cells are carried
// as Cell values so that an absent cell (empty in the file) is distinguishable
// from real text; the matcher and the session check Cell.Valid before use.
//
// The batch is read-only and loaded once at session start. All other internal
// packages that need example data import batch; batch imports nothing internal.
package batch
