package match

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// PunktSegmenter splits English prose into sentences using the Punkt
// unsupervised boundary-detection model with pretrained English data.
//
// Thread-safety: the underlying tokenizer is read-only after construction and
// safe for concurrent use.
type PunktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSegmenter loads the pretrained English model.
//
// Loading only fails when the embedded training data is corrupt, which means
// a broken build rather than bad input data.
func NewPunktSegmenter() (*PunktSegmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &PunktSegmenter{tokenizer: tokenizer}, nil
}

// Segment implements Segmenter. Sentences are returned in document order
// with surrounding whitespace trimmed; whitespace-only fragments are dropped.
func (s *PunktSegmenter) Segment(text string) []string {
	var out []string
	for _, snt := range s.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(snt.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
