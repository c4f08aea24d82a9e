// Package session orchestrates forward progression through an annotation
// batch.
//
// A Session is a state machine over two logical states: Presenting(i), where
// example i awaits a rating, and Exhausted, past the end of the batch. Submit
// performs the only transition: it validates the rating, persists a record,
// and advances the cursor. Durability lives entirely in the store - the
// session's own state is discarded at process end and recomputed from the
// store's resume point on the next start.
//
// Sessions are single-writer and synchronous: the UI adapter calls one
// operation at a time and blocks until it returns.
package session
