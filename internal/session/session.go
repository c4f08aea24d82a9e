package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/batch"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/match"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/store"
)

// Display is the payload the UI adapter renders for one example.
//
// BestSentence is the extract sentence most similar to the clue, absent when
// either extract or clue is absent. Rating and Comments are the freshly
// cleared input fields.
type Display struct {
	Index        int
	Extract      batch.Cell
	BestSentence batch.Cell
	Answer       batch.Cell
	Category     batch.Cell
	Clue         batch.Cell
	Rating       string
	Comments     string
}

// Options configures a new session.
type Options struct {
	// Annotator is the identity recorded with every annotation.
	// Required.
	Annotator string

	// Start is the requested starting index. The actual starting index is
	// the store's resume computation over Start and any recorded indices.
	Start int

	// Now supplies record timestamps. Defaults to time.Now.
	// Tests inject a deterministic clock here.
	Now func() time.Time

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Session tracks progress through an ordered batch of examples.
//
// The cursor is monotonically non-decreasing: each successful Submit writes
// one record and advances by one. Durability lives in the store; a session
// restarted after an interruption resumes where the records end.
type Session struct {
	batch   *batch.Batch
	store   store.Store
	matcher *match.Matcher

	annotator string
	now       func() time.Time
	logger    *slog.Logger

	current int
}

// New creates a session positioned at the store's resume index.
//
// If the resume index is already past the last batch position the session
// starts exhausted. The session token in the logs is a UUIDv7, so log lines
// from successive runs against the same batch sort by start time.
func New(ctx context.Context, b *batch.Batch, st store.Store, m *match.Matcher, opts Options) (*Session, error) {
	if opts.Annotator == "" {
		return nil, fmt.Errorf("annotator identity is required")
	}
	if opts.Start < 0 {
		return nil, fmt.Errorf("start index %d is negative", opts.Start)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	resume, err := st.ResumeIndex(ctx, opts.Start)
	if err != nil {
		return nil, fmt.Errorf("compute resume index: %w", err)
	}

	token := uuid.Must(uuid.NewV7()).String()
	logger := opts.Logger.With(
		"session", token,
		"batch", b.Name,
		"annotator", opts.Annotator,
	)
	logger.Info("session started", "resume_index", resume, "batch_len", b.Len())

	return &Session{
		batch:     b,
		store:     st,
		matcher:   m,
		annotator: opts.Annotator,
		now:       opts.Now,
		logger:    logger,
		current:   resume,
	}, nil
}

// Exhausted reports whether every batch example at or past the starting
// index has been annotated. No further Submit is accepted once exhausted.
func (s *Session) Exhausted() bool {
	return s.current >= s.batch.Len()
}

// Current returns the display payload for the example awaiting a rating.
// Returns an exhausted-session error when there is none.
func (s *Session) Current() (Display, error) {
	if s.Exhausted() {
		return Display{}, &SessionError{
			Code:    ErrCodeExhausted,
			Message: "all examples annotated",
			Index:   s.current,
		}
	}
	return s.display(s.current), nil
}

// Submit records a rating for the current example and advances.
//
// rating must be one of the fixed enumeration; anything else is rejected
// before the store is touched. Empty or whitespace-only comments are replaced
// by the current example's clue, preserving a record of what was judged even
// without an annotator note.
//
// On success the returned Display is the next example's payload; after the
// final example it is the zero Display and Exhausted() turns true. On append
// failure the session stays on the current example so the annotator can
// retry, and the error carries the APPEND_FAILED code.
func (s *Session) Submit(ctx context.Context, rating Rating, comments string) (Display, error) {
	if !rating.Valid() {
		return Display{}, &SessionError{
			Code:    ErrCodeInvalidRating,
			Message: fmt.Sprintf("rating %q is not one of %v", rating, Ratings),
			Index:   s.current,
		}
	}
	if s.Exhausted() {
		return Display{}, &SessionError{
			Code:    ErrCodeExhausted,
			Message: "all examples annotated",
			Index:   s.current,
		}
	}

	ex, _ := s.batch.At(s.current)
	rec := s.record(ex, rating, comments)

	if err := s.store.Append(ctx, rec); err != nil {
		return Display{}, &SessionError{
			Code:    ErrCodeAppendFailed,
			Message: "annotation not recorded",
			Index:   s.current,
			Err:     err,
		}
	}

	s.logger.Debug("annotation recorded", "index", s.current, "rating", rec.Rating)
	s.current++

	if s.Exhausted() {
		s.logger.Info("batch exhausted", "annotated_through", s.current-1)
		return Display{}, nil
	}
	return s.display(s.current), nil
}

// display builds the payload for example i, enriched with the best-matching
// sentence.
func (s *Session) display(i int) Display {
	ex, _ := s.batch.At(i)
	extract := s.batch.Extract(ex)
	clue := s.batch.Clue(ex)
	return Display{
		Index:        i,
		Extract:      extract,
		BestSentence: s.matcher.BestSentence(extract, clue),
		Answer:       s.batch.Answer(ex),
		Category:     s.batch.Category(ex),
		Clue:         clue,
	}
}

// record assembles the annotation record for ex.
func (s *Session) record(ex batch.Example, rating Rating, comments string) store.Record {
	if strings.TrimSpace(comments) == "" {
		comments = s.batch.Clue(ex).String()
	}

	cells := ex.Values()
	values := make([]string, len(cells))
	for i, c := range cells {
		values[i] = c.String()
	}

	now := s.now()
	return store.Record{
		Index:     ex.Index,
		Columns:   s.batch.Columns,
		Values:    values,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Rating:    string(rating),
		Comments:  comments,
		Annotator: s.annotator,
	}
}
