package langmodel

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"langid/internal/lexicon"
)

var (
	// ErrEmptyLexicon indicates that no lexicon entries survived the
	// MinWordCount filter.
	ErrEmptyLexicon = errors.New("lexicon has no usable entries")
	// ErrInvalidConfig indicates an unusable builder configuration.
	ErrInvalidConfig = errors.New("invalid model config")
)

// Default builder parameters. The smoothing constant follows the corpus
// the models were originally tuned on; both are configurable.
const (
	DefaultOrder          = 3
	DefaultSmoothing      = 0.1
	DefaultCaseFoldMinLen = 4
)

// Config controls how Build turns a frequency lexicon into a Model.
type Config struct {
	// Order is the character n-gram length, at least 1.
	Order int
	// Smoothing is the add-lambda constant applied to observed n-gram
	// counts before normalization. Must not be negative.
	Smoothing float64
	// MinWordCount drops lexicon entries whose count is below it.
	MinWordCount int64
	// CaseFoldMinLen lowercases words at least this many runes long.
	// Short words keep their case: "Is" starts an Irish sentence where
	// "is" mid-sentence is common to both languages. Zero disables.
	CaseFoldMinLen int
	// BoundaryStart and BoundaryEnd pad words during n-gram extraction.
	// Zero values fall back to the defaults.
	BoundaryStart rune
	BoundaryEnd   rune
}

// DefaultConfig returns the builder configuration used when a manifest
// or flag does not override it.
func DefaultConfig() Config {
	return Config{
		Order:          DefaultOrder,
		Smoothing:      DefaultSmoothing,
		CaseFoldMinLen: DefaultCaseFoldMinLen,
		BoundaryStart:  DefaultBoundaryStart,
		BoundaryEnd:    DefaultBoundaryEnd,
	}
}

// Build trains a language model from a frequency lexicon.
//
// Unigram probabilities are maximum-likelihood over the surviving
// entries. The character table counts every padded n-gram of every word,
// weighted by the word's count, then normalizes with add-lambda
// smoothing. Unseen n-grams score log(1/(alphabet+1)) so that any word
// over any alphabet gets a finite emission score.
func Build(language string, lex *lexicon.Lexicon, cfg Config) (*Model, error) {
	if cfg.Order < 1 {
		return nil, fmt.Errorf("%w: ngram order %d, must be at least 1", ErrInvalidConfig, cfg.Order)
	}
	if cfg.Smoothing < 0 {
		return nil, fmt.Errorf("%w: smoothing constant %g, must not be negative", ErrInvalidConfig, cfg.Smoothing)
	}
	if cfg.MinWordCount < 0 {
		return nil, fmt.Errorf("%w: min word count %d, must not be negative", ErrInvalidConfig, cfg.MinWordCount)
	}
	if cfg.BoundaryStart == 0 {
		cfg.BoundaryStart = DefaultBoundaryStart
	}
	if cfg.BoundaryEnd == 0 {
		cfg.BoundaryEnd = DefaultBoundaryEnd
	}

	// Filter, fold and aggregate the surviving entries.
	counts := make(map[string]int64, lex.Len())
	order := make([]string, 0, lex.Len())
	var total int64
	lex.Each(func(word string, count int64) {
		if count < cfg.MinWordCount {
			return
		}
		w := foldWord(word, cfg.CaseFoldMinLen)
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w] += count
		total += count
	})
	if len(counts) == 0 || total == 0 {
		return nil, fmt.Errorf("%w (min word count %d)", ErrEmptyLexicon, cfg.MinWordCount)
	}

	m := &Model{
		Language:       language,
		Order:          cfg.Order,
		CaseFoldMinLen: cfg.CaseFoldMinLen,
		BoundaryStart:  cfg.BoundaryStart,
		BoundaryEnd:    cfg.BoundaryEnd,
		UnigramLogProb: make(map[string]float64, len(counts)),
		TotalTokens:    total,
	}

	logTotal := math.Log(float64(total))
	for w, c := range counts {
		m.UnigramLogProb[w] = math.Log(float64(c)) - logTotal
	}

	// Count padded character n-grams, weighting each occurrence by the
	// word's lexicon count. The alphabet tracks every distinct rune seen,
	// boundaries included, to size the unseen-ngram mass.
	gramCounts := make(map[string]int64)
	alphabet := make(map[rune]struct{})
	var gramTotal int64
	for _, w := range order {
		c := counts[w]
		for _, r := range w {
			alphabet[r] = struct{}{}
		}
		for _, g := range Ngrams(w, cfg.Order, cfg.BoundaryStart, cfg.BoundaryEnd) {
			gramCounts[g] += c
			gramTotal += c
		}
	}
	alphabet[cfg.BoundaryStart] = struct{}{}
	alphabet[cfg.BoundaryEnd] = struct{}{}

	lambda := cfg.Smoothing
	denom := float64(gramTotal) + lambda*float64(len(gramCounts))
	m.NgramLogProb = make(map[string]float64, len(gramCounts))
	for g, c := range gramCounts {
		m.NgramLogProb[g] = math.Log((float64(c) + lambda) / denom)
	}
	m.UnknownLogProb = -math.Log(float64(len(alphabet) + 1))

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("built model failed validation: %w", err)
	}
	return m, nil
}

func foldWord(word string, minLen int) string {
	if minLen > 0 && utf8.RuneCountInString(word) >= minLen {
		return strings.ToLower(word)
	}
	return word
}
