package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/batch"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/match"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/store"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/testutil"
)

// sentenceScorer returns predetermined scores per sentence, standing in for
// the overlap metric so the flow test does not depend on stemmer behavior.
type sentenceScorer map[string]float64

func (s sentenceScorer) Score(candidate, reference string) float64 { return s[reference] }

// TestEndToEnd exercises the full flow against a real CSV record store:
// resume from nothing, best-sentence enrichment, clue fallback for an empty
// comment, durable append, exhaustion, and resume on a second run.
func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	batchPath := filepath.Join(dir, "chunk_01.csv")
	require.NoError(t, os.WriteFile(batchPath, []byte(
		"extract,clue,answer,new_category\n"+
			"The cat sat. It slept all day.,A sleepy cat.,cat,animal\n"), 0o644))

	b, err := batch.Load(batchPath)
	require.NoError(t, err)

	seg, err := match.NewPunktSegmenter()
	require.NoError(t, err)
	matcher := match.New(seg, sentenceScorer{
		"The cat sat.":      0.2,
		"It slept all day.": 0.6,
	})

	annDir := filepath.Join(dir, "annotations")
	st, err := store.Open(store.BackendCSV, annDir, b.Name)
	require.NoError(t, err)

	ctx := context.Background()
	opts := Options{
		Annotator: "tester",
		Now:       testutil.NewClock(time.Unix(1700000000, 0), time.Second).Now,
	}
	sess, err := New(ctx, b, st, matcher, opts)
	require.NoError(t, err)

	// No record file yet: session starts at the requested index.
	disp, err := sess.Current()
	require.NoError(t, err)
	require.Equal(t, 0, disp.Index)
	require.Equal(t, "It slept all day.", disp.BestSentence.Text)
	require.Equal(t, "cat", disp.Answer.Text)
	require.Equal(t, "animal", disp.Category.Text)

	// Empty comment stores the clue instead.
	_, err = sess.Submit(ctx, RatingA, "")
	require.NoError(t, err)
	require.True(t, sess.Exhausted())
	require.NoError(t, st.Close())

	recPath := store.CSVPath(annDir, b.Name)
	data, err := os.ReadFile(recPath)
	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "e2e_annotations", data)

	// Second run over the same record file: nothing left to annotate.
	st2, err := store.Open(store.BackendCSV, annDir, b.Name)
	require.NoError(t, err)
	defer st2.Close()

	sess2, err := New(ctx, b, st2, matcher, opts)
	require.NoError(t, err)
	require.True(t, sess2.Exhausted())
}
