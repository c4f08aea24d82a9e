package match

import (
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/batch"
)

// Segmenter splits text into an ordered sequence of sentences.
type Segmenter interface {
	Segment(text string) []string
}

// Scorer computes a similarity score for candidate against reference.
// Scores are in [0, 1], 1 meaning identical under the metric.
type Scorer interface {
	Score(candidate, reference string) float64
}

// Matcher locates the extract sentence most similar to a clue.
//
// Matcher is stateless apart from its capabilities and safe for concurrent
// use when they are.
type Matcher struct {
	seg    Segmenter
	scorer Scorer
}

// New creates a Matcher from a segmenter and a scorer.
func New(seg Segmenter, scorer Scorer) *Matcher {
	return &Matcher{seg: seg, scorer: scorer}
}

// Default creates a Matcher with the production capabilities: Punkt sentence
// segmentation and a stemmed ROUGE-L scorer.
//
// Returns an error if the segmenter's trained model cannot be loaded; that is
// an environment problem and the caller should abort startup.
func Default() (*Matcher, error) {
	seg, err := NewPunktSegmenter()
	if err != nil {
		return nil, err
	}
	return New(seg, RougeL{}), nil
}

// BestSentence returns the sentence of extract with the highest score against
// clue.
//
// If either input is absent the result is absent and neither capability is
// invoked. If segmentation yields no sentences the result is absent. Ties on
// the maximum score resolve to the earliest sentence: only a strictly greater
// score displaces the current best.
func (m *Matcher) BestSentence(extract, clue batch.Cell) batch.Cell {
	if !extract.Valid || !clue.Valid {
		return batch.Cell{}
	}

	sentences := m.seg.Segment(extract.Text)
	if len(sentences) == 0 {
		return batch.Cell{}
	}

	best := 0
	bestScore := m.scorer.Score(clue.Text, sentences[0])
	for i := 1; i < len(sentences); i++ {
		if score := m.scorer.Score(clue.Text, sentences[i]); score > bestScore {
			best, bestScore = i, score
		}
	}

	return batch.Cell{Text: sentences[best], Valid: true}
}
