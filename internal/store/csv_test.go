package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testRecord(index int, rating string) Record {
	return Record{
		Index:     index,
		Columns:   []string{"extract", "clue", "answer", "new_category"},
		Values:    []string{"The cat sat.", "A sleepy cat.", "cat", "animal"},
		Timestamp: 1700000000,
		Rating:    rating,
		Comments:  "A sleepy cat.",
		Annotator: "tester",
	}
}

func TestCSV_ResumeIndex_AbsentFile(t *testing.T) {
	s, err := OpenCSV(filepath.Join(t.TempDir(), "annotations_x.csv"))
	if err != nil {
		t.Fatalf("OpenCSV() failed: %v", err)
	}
	defer s.Close()

	for _, start := range []int{0, 3, 40} {
		got, err := s.ResumeIndex(context.Background(), start)
		if err != nil {
			t.Fatalf("ResumeIndex(%d) failed: %v", start, err)
		}
		if got != start {
			t.Errorf("ResumeIndex(%d) = %d, want %d on absent file", start, got, start)
		}
	}
}

func TestCSV_AppendCreatesFileAndDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations", "annotations_x.csv")
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV() failed: %v", err)
	}
	defer s.Close()

	if err := s.Append(context.Background(), testRecord(0, "A")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("record file was not created: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "\xef\xbb\xbf") {
		t.Error("record file does not start with a UTF-8 byte order mark")
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("file has %d lines, want header + 1 record", len(lines))
	}
	wantHeader := "extract,clue,answer,new_category,timestamp,rating,comments,annotator"
	if strings.TrimPrefix(lines[0], "\xef\xbb\xbf") != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
}

func TestCSV_AppendThenResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations_x.csv")
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV() failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Append(ctx, testRecord(i, "A")); err != nil {
			t.Fatalf("Append(%d) failed: %v", i, err)
		}
	}
	s.Close()

	// A fresh store over the same file must resume after the records.
	s2, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.ResumeIndex(ctx, 0)
	if err != nil {
		t.Fatalf("ResumeIndex() failed: %v", err)
	}
	if got != 3 {
		t.Errorf("ResumeIndex(0) = %d, want 3 after 3 records", got)
	}

	// A requested start above the records wins: max(start, maxIdx) + 1.
	got, err = s2.ResumeIndex(ctx, 10)
	if err != nil {
		t.Fatalf("ResumeIndex() failed: %v", err)
	}
	if got != 11 {
		t.Errorf("ResumeIndex(10) = %d, want 11", got)
	}
}

func TestCSV_ResumeAfterReopenedAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations_x.csv")
	ctx := context.Background()

	// Simulate an interrupted session: two runs, two appends each.
	for run := 0; run < 2; run++ {
		s, err := OpenCSV(path)
		if err != nil {
			t.Fatalf("run %d OpenCSV() failed: %v", run, err)
		}
		start, err := s.ResumeIndex(ctx, 0)
		if err != nil {
			t.Fatalf("run %d ResumeIndex() failed: %v", run, err)
		}
		if want := run * 2; start != want {
			t.Fatalf("run %d resumed at %d, want %d", run, start, want)
		}
		for i := 0; i < 2; i++ {
			if err := s.Append(ctx, testRecord(start+i, "B")); err != nil {
				t.Fatalf("run %d Append failed: %v", run, err)
			}
		}
		s.Close()
	}
}

func TestCSV_NonASCIIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations_x.csv")
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV() failed: %v", err)
	}
	defer s.Close()

	rec := testRecord(0, "A")
	rec.Values = []string{"Die Katze schlief.", "Eine müde Katze.", "Katze", "Tier"}
	rec.Comments = "Eine müde Katze."
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "Eine müde Katze.") {
		t.Error("non-ASCII content did not round-trip")
	}
}

func TestCSV_SchemaMismatchRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations_x.csv")
	ctx := context.Background()

	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV() failed: %v", err)
	}
	if err := s.Append(ctx, testRecord(0, "A")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	s.Close()

	s2, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	rec := testRecord(1, "A")
	rec.Columns = []string{"extract", "clue"}
	rec.Values = []string{"x", "y"}
	if err := s2.Append(ctx, rec); err == nil {
		t.Fatal("Append() accepted a record with a different schema")
	}
}

func TestCSV_QuotedFieldsSurvive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations_x.csv")
	ctx := context.Background()

	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV() failed: %v", err)
	}
	rec := testRecord(0, "C")
	rec.Comments = "odd, but \"fine\"\nreally"
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	s.Close()

	// The resume scan parses the file; a mangled quote or embedded
	// newline would either fail or change the row count.
	s2, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	got, err := s2.ResumeIndex(ctx, 0)
	if err != nil {
		t.Fatalf("ResumeIndex() failed: %v", err)
	}
	if got != 1 {
		t.Errorf("ResumeIndex(0) = %d, want 1", got)
	}
}

func TestCSVPath_Derivation(t *testing.T) {
	got := CSVPath("annotations", "chunk_01.csv")
	want := filepath.Join("annotations", "annotations_chunk_01.csv")
	if got != want {
		t.Errorf("CSVPath = %q, want %q", got, want)
	}
}
