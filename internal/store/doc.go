// Package store provides durable, append-only storage for annotation records.
//
// A record store is addressed by the batch's identity (its base file name)
// and holds one row per annotated example: the example's original fields
// followed by timestamp, rating, comments, and annotator. Records are written
// once and never mutated or deleted.
//
// Two backends implement the Store interface:
//
//   - CSV: a BOM-prefixed UTF-8, comma-delimited file compatible with common
//     spreadsheet tools. Created lazily on first append with a header derived
//     from the first record. Appends are flushed and fsynced before returning.
//   - SQLite: WAL mode, single connection, embedded schema. A UNIQUE index on
//     the example index plus ON CONFLICT DO NOTHING makes duplicate writes
//     no-ops.
//
// Both backends compute the resume point the same way: the maximum recorded
// index and the requested start, plus one. A store with no records resumes at
// the requested start. Concurrent writers are out of scope; the design
// assumes one session process per record store.
package store
