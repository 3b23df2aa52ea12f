package langmodel

import (
	"errors"
	"fmt"
	"math"
)

// Model is a trained language model: word unigram log-probabilities plus
// a character n-gram back-off table. Built once by Build, then read-only;
// safe to share across concurrent decoders.
type Model struct {
	// Language is the tag this model was trained for, e.g. "ga".
	Language string
	// Order is the character n-gram length.
	Order int
	// CaseFoldMinLen: words at least this many runes long are lowercased
	// before lookup and training. Zero disables folding.
	CaseFoldMinLen int
	// BoundaryStart and BoundaryEnd pad words during n-gram extraction.
	BoundaryStart rune
	BoundaryEnd   rune
	// UnigramLogProb maps every trained word to log(count/total).
	UnigramLogProb map[string]float64
	// NgramLogProb maps every observed padded character n-gram to its
	// smoothed log-probability.
	NgramLogProb map[string]float64
	// UnknownLogProb scores n-grams absent from NgramLogProb. Always
	// finite, so out-of-vocabulary words stay rankable.
	UnknownLogProb float64
	// TotalTokens is the summed lexicon count the model was trained on.
	TotalTokens int64
}

// Fold applies the model's case-folding rule to a word.
func (m *Model) Fold(word string) string {
	return foldWord(word, m.CaseFoldMinLen)
}

// UnigramScore looks the word up in the trained lexicon. The boolean
// reports whether the word was known; a miss never silently maps to a
// default score.
func (m *Model) UnigramScore(word string) (float64, bool) {
	logp, ok := m.UnigramLogProb[m.Fold(word)]
	return logp, ok
}

// BackoffScore scores a word with the character n-gram table alone,
// summing the log-probabilities of its padded n-grams. The word is
// case-folded with the same rule used during training, so the lookup
// hits the table the builder actually populated. Every n-gram is
// covered either by the table or by UnknownLogProb, so the result is
// finite for any input.
func (m *Model) BackoffScore(word string) float64 {
	logp := 0.0
	for _, g := range Ngrams(m.Fold(word), m.Order, m.BoundaryStart, m.BoundaryEnd) {
		if p, ok := m.NgramLogProb[g]; ok {
			logp += p
		} else {
			logp += m.UnknownLogProb
		}
	}
	return logp
}

// EmissionScore is the log-probability of observing word under this
// model: the unigram score when the word is in the trained lexicon,
// otherwise the n-gram back-off score.
func (m *Model) EmissionScore(word string) float64 {
	if logp, ok := m.UnigramScore(word); ok {
		return logp
	}
	return m.BackoffScore(word)
}

// Validate checks the invariants every trained or deserialized model
// must satisfy: a usable n-gram order, a non-empty table, and finite
// non-positive log-probabilities throughout.
func (m *Model) Validate() error {
	switch {
	case m.Language == "":
		return errors.New("missing language tag")
	case m.Order < 1:
		return errors.New("ngram order below 1")
	case m.TotalTokens <= 0:
		return errors.New("no training tokens")
	case len(m.NgramLogProb) == 0:
		return errors.New("empty ngram table")
	case !validLogProb(m.UnknownLogProb):
		return errors.New("unknown-ngram log-probability out of range")
	}
	for w, p := range m.UnigramLogProb {
		if !validLogProb(p) {
			return fmt.Errorf("unigram log-probability out of range for %q", w)
		}
	}
	for g, p := range m.NgramLogProb {
		if !validLogProb(p) {
			return fmt.Errorf("ngram log-probability out of range for %q", g)
		}
	}
	return nil
}

func validLogProb(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p <= 0
}
