// Package match selects the extract sentence most similar to a clue.
//
// Matcher composes two capabilities behind small interfaces:
//   - Segmenter: extract text -> ordered sentences
//   - Scorer: (candidate, reference) -> similarity in [0, 1]
//
// Production wiring uses Punkt sentence boundary detection for segmentation
// and a stemmed ROUGE-L F-measure for scoring. Both are deterministic, so for
// a fixed extract/clue pair BestSentence always returns the same sentence,
// with ties resolved to the earliest sentence in document order.
package match
