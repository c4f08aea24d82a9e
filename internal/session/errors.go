package session

import (
	"errors"
	"fmt"
)

// SessionError represents an error surfaced at the session boundary.
//
// Session errors are discrete, typed outcomes for the UI adapter:
//   - Invalid rating: the submitted value is not in the fixed enumeration
//   - Exhausted: submit after the batch has been fully annotated
//   - Append failed: the store rejected the record; the session stays on
//     the current example and the annotator may retry
type SessionError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index identifies the affected example, where applicable.
	Index int

	// Err is the underlying cause (append failures).
	Err error
}

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeInvalidRating indicates a rating outside the enumeration.
	ErrCodeInvalidRating ErrorCode = "INVALID_RATING"

	// ErrCodeExhausted indicates a submit on an exhausted session.
	ErrCodeExhausted ErrorCode = "EXHAUSTED"

	// ErrCodeAppendFailed indicates the store append did not complete.
	ErrCodeAppendFailed ErrorCode = "APPEND_FAILED"
)

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (example=%d): %v", e.Code, e.Message, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %s (example=%d)", e.Code, e.Message, e.Index)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *SessionError) Unwrap() error { return e.Err }

// IsInvalidRating returns true if err is an invalid-rating error.
// Uses errors.As to handle wrapped errors.
func IsInvalidRating(err error) bool { return hasCode(err, ErrCodeInvalidRating) }

// IsExhausted returns true if err is an exhausted-session error.
// Uses errors.As to handle wrapped errors.
func IsExhausted(err error) bool { return hasCode(err, ErrCodeExhausted) }

// IsAppendFailed returns true if err is a failed-append error.
// Uses errors.As to handle wrapped errors.
func IsAppendFailed(err error) bool { return hasCode(err, ErrCodeAppendFailed) }

func hasCode(err error, code ErrorCode) bool {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
