package langmodel_test

import (
	"errors"
	"math"
	"testing"

	"langid/internal/langmodel"
	"langid/internal/lexicon"
)

func mustLexicon(t *testing.T, entries ...lexicon.Entry) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.FromEntries(entries)
	if err != nil {
		t.Fatalf("FromEntries failed: %v", err)
	}
	return lex
}

func TestBuildUnigramProbabilities(t *testing.T) {
	lex := mustLexicon(t,
		lexicon.Entry{Word: "the", Count: 100},
		lexicon.Entry{Word: "of", Count: 50},
	)
	m, err := langmodel.Build("en", lex, langmodel.DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.TotalTokens != 150 {
		t.Errorf("TotalTokens = %d, want 150", m.TotalTokens)
	}
	tests := []struct {
		word string
		want float64
	}{
		{"the", math.Log(100.0 / 150.0)},
		{"of", math.Log(50.0 / 150.0)},
	}
	for _, tt := range tests {
		got, ok := m.UnigramScore(tt.word)
		if !ok {
			t.Fatalf("UnigramScore(%q) missed", tt.word)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("UnigramScore(%q) = %v, want %v", tt.word, got, tt.want)
		}
		if got > 0 {
			t.Errorf("UnigramScore(%q) = %v, want <= 0", tt.word, got)
		}
	}
	if _, ok := m.UnigramScore("agus"); ok {
		t.Error("UnigramScore(agus) hit, want miss")
	}
}

func TestBuildBackoffIsFiniteForAnyWord(t *testing.T) {
	lex := mustLexicon(t, lexicon.Entry{Word: "agus", Count: 80})
	m, err := langmodel.Build("ga", lex, langmodel.DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Words over a completely foreign alphabet must still score finite.
	for _, word := range []string{"agus", "zzzz", "東京", "x"} {
		logp := m.BackoffScore(word)
		if math.IsInf(logp, 0) || math.IsNaN(logp) {
			t.Errorf("BackoffScore(%q) = %v, want finite", word, logp)
		}
		if logp > 0 {
			t.Errorf("BackoffScore(%q) = %v, want <= 0", word, logp)
		}
	}
	if m.UnknownLogProb >= 0 || math.IsInf(m.UnknownLogProb, 0) {
		t.Errorf("UnknownLogProb = %v, want finite negative", m.UnknownLogProb)
	}
}

func TestBuildNgramLogProbsAreValid(t *testing.T) {
	lex := mustLexicon(t,
		lexicon.Entry{Word: "agus", Count: 80},
		lexicon.Entry{Word: "an", Count: 60},
	)
	m, err := langmodel.Build("ga", lex, langmodel.DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(m.NgramLogProb) == 0 {
		t.Fatal("ngram table is empty")
	}
	for g, p := range m.NgramLogProb {
		if p > 0 || math.IsInf(p, 0) || math.IsNaN(p) {
			t.Errorf("NgramLogProb[%q] = %v, want finite <= 0", g, p)
		}
	}
	// Trigrams of "agus" padded with boundaries must all be present.
	for _, g := range []string{"^ag", "agu", "gus", "us$"} {
		if _, ok := m.NgramLogProb[g]; !ok {
			t.Errorf("ngram table missing %q", g)
		}
	}
}

func TestBuildMinWordCountBoundary(t *testing.T) {
	lex := mustLexicon(t,
		lexicon.Entry{Word: "keep", Count: 5},
		lexicon.Entry{Word: "drop", Count: 4},
	)
	cfg := langmodel.DefaultConfig()
	cfg.MinWordCount = 5
	m, err := langmodel.Build("en", lex, cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := m.UnigramScore("keep"); !ok {
		t.Error("word at the threshold was dropped")
	}
	if _, ok := m.UnigramScore("drop"); ok {
		t.Error("word below the threshold was kept")
	}
	if m.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d, want 5", m.TotalTokens)
	}
}

func TestBuildCaseFolding(t *testing.T) {
	lex := mustLexicon(t,
		lexicon.Entry{Word: "Dublin", Count: 10},
		lexicon.Entry{Word: "Is", Count: 10},
	)
	m, err := langmodel.Build("en", lex, langmodel.DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Long words fold, so lookup is case-insensitive for them.
	if _, ok := m.UnigramScore("dublin"); !ok {
		t.Error("folded lookup of dublin missed")
	}
	if _, ok := m.UnigramScore("DUBLIN"); !ok {
		t.Error("folded lookup of DUBLIN missed")
	}
	// Short words keep their case.
	if _, ok := m.UnigramScore("Is"); !ok {
		t.Error("exact lookup of Is missed")
	}
	if _, ok := m.UnigramScore("is"); ok {
		t.Error("lookup of is hit, short words must stay case-sensitive")
	}
}

func TestBackoffFoldsLikeTraining(t *testing.T) {
	lex := mustLexicon(t, lexicon.Entry{Word: "amhran", Count: 100})
	m, err := langmodel.Build("ga", lex, langmodel.DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// The table holds folded grams, so a capitalized out-of-vocabulary
	// word must score identically to its lowercase spelling.
	lower := m.EmissionScore("amhrans")
	upper := m.EmissionScore("Amhrans")
	if lower != upper {
		t.Errorf("EmissionScore(Amhrans) = %v, EmissionScore(amhrans) = %v, want equal", upper, lower)
	}
	// And it must beat the unknown-gram floor: the shared edge grams of
	// the trained word have to hit the table. "amhrans" yields 7 padded
	// trigrams.
	floor := 7 * m.UnknownLogProb
	if upper <= floor {
		t.Errorf("EmissionScore(Amhrans) = %v, want above the all-unknown score %v", upper, floor)
	}
}

func TestBuildErrors(t *testing.T) {
	lex := mustLexicon(t, lexicon.Entry{Word: "the", Count: 2})

	cfg := langmodel.DefaultConfig()
	cfg.Order = 0
	if _, err := langmodel.Build("en", lex, cfg); !errors.Is(err, langmodel.ErrInvalidConfig) {
		t.Errorf("Build with order 0 = %v, want ErrInvalidConfig", err)
	}

	cfg = langmodel.DefaultConfig()
	cfg.Smoothing = -0.5
	if _, err := langmodel.Build("en", lex, cfg); !errors.Is(err, langmodel.ErrInvalidConfig) {
		t.Errorf("Build with negative smoothing = %v, want ErrInvalidConfig", err)
	}

	cfg = langmodel.DefaultConfig()
	cfg.MinWordCount = 100
	if _, err := langmodel.Build("en", lex, cfg); !errors.Is(err, langmodel.ErrEmptyLexicon) {
		t.Errorf("Build with everything filtered = %v, want ErrEmptyLexicon", err)
	}
}

func TestBuildModelValidates(t *testing.T) {
	lex := mustLexicon(t, lexicon.Entry{Word: "agus", Count: 80})
	m, err := langmodel.Build("ga", lex, langmodel.DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate of a freshly built model failed: %v", err)
	}
}
