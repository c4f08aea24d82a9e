package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSV is an annotation record store backed by a comma-delimited file.
//
// The file is created lazily on the first Append, together with its parent
// directory, and starts with a UTF-8 byte order mark so spreadsheet tools
// open non-ASCII content correctly. Every Append flushes and fsyncs before
// returning: a crash immediately after a successful Append loses nothing.
//
// Recorded indices are row ordinals. Under single-writer use rows are
// appended contiguously from the first annotated index, so the ordinal of
// the last row is the highest annotated index.
type CSV struct {
	path string

	file *os.File
	w    *csv.Writer
}

// OpenCSV creates a CSV store for the given record file path.
// The file itself is not touched until the first Append.
func OpenCSV(path string) (*CSV, error) {
	return &CSV{path: path}, nil
}

// ResumeIndex implements Store.
//
// The existing record file, if any, is scanned in full and the maximum row
// ordinal found is combined with defaultStart. An absent or header-only file
// resumes at defaultStart.
func (s *CSV) ResumeIndex(_ context.Context, defaultStart int) (int, error) {
	_, rows, err := s.readAll()
	if errors.Is(err, os.ErrNotExist) {
		return defaultStart, nil
	}
	if err != nil {
		return 0, fmt.Errorf("resume scan %s: %w", s.path, err)
	}
	if rows == 0 {
		return defaultStart, nil
	}
	return max(defaultStart, rows-1) + 1, nil
}

// Append implements Store.
func (s *CSV) Append(_ context.Context, rec Record) error {
	if s.w == nil {
		if err := s.open(rec); err != nil {
			return fmt.Errorf("append to %s: %w", s.path, err)
		}
	}

	row := make([]string, 0, len(rec.Values)+4)
	row = append(row, rec.Values...)
	row = append(row,
		strconv.FormatFloat(rec.Timestamp, 'f', -1, 64),
		rec.Rating,
		rec.Comments,
		rec.Annotator,
	)

	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return nil
}

// Close implements Store. Safe to call with no file open.
func (s *CSV) Close() error {
	if s.file == nil {
		return nil
	}
	s.w.Flush()
	err := s.w.Error()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.file = nil
	s.w = nil
	return err
}

// open prepares the append handle, creating the file and its directory when
// they do not exist yet. The schema comes from the first record appended; an
// existing file must carry the same header.
func (s *CSV) open(first Record) error {
	header, _, err := s.readAll()
	switch {
	case errors.Is(err, os.ErrNotExist):
		header = nil
	case err != nil:
		return err
	case !slices.Equal(header, first.Header()):
		return fmt.Errorf("existing record file schema %v does not match %v", header, first.Header())
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	var dst io.Writer = f
	if header == nil {
		// Fresh file: the encoder emits the byte order mark ahead of
		// the header row.
		dst = transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	}

	s.file = f
	s.w = csv.NewWriter(dst)

	if header == nil {
		if err := s.w.Write(first.Header()); err != nil {
			f.Close()
			s.file, s.w = nil, nil
			return err
		}
	}
	return nil
}

// readAll scans the record file, returning its header and data row count.
// Returns os.ErrNotExist (wrapped) when the file is absent.
func (s *CSV) readAll() (header []string, rows int, err error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	for {
		if _, err := r.Read(); err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, err
		}
		rows++
	}
	return header, rows, nil
}
