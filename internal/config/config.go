// Package config loads the langid.toml manifest that names the
// languages, their lexicon files and the training/decoding parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"langid/internal/langmodel"
	"langid/internal/viterbi"
)

// ManifestName is the file searched for when no --config is given.
const ManifestName = "langid.toml"

// Manifest is a loaded langid.toml plus where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest file.
type Config struct {
	Model     ModelConfig      `toml:"model"`
	Decode    DecodeConfig     `toml:"decode"`
	Languages []LanguageConfig `toml:"languages"`
}

type ModelConfig struct {
	Dir            string  `toml:"dir"`
	Order          int     `toml:"order"`
	Smoothing      float64 `toml:"smoothing"`
	MinWordCount   int64   `toml:"min_word_count"`
	CaseFoldMinLen int     `toml:"case_fold_min_len"`
}

type DecodeConfig struct {
	StayProb   float64 `toml:"stay_prob"`
	StartPrior string  `toml:"start_prior"`
}

type LanguageConfig struct {
	Tag     string `toml:"tag"`
	Lexicon string `toml:"lexicon"`
}

// Defaults for manifest keys that are left out.
const (
	DefaultModelDir   = "models"
	DefaultStartPrior = "lexicon"
)

// Find walks upward from startDir looking for langid.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses and validates a manifest file. Missing optional keys are
// filled with defaults; a missing or empty [[languages]] list is an
// error, as is a language without a tag or lexicon.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("languages") || len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("%s: missing [[languages]]", path)
	}
	seen := make(map[string]struct{}, len(cfg.Languages))
	for i, lang := range cfg.Languages {
		if strings.TrimSpace(lang.Tag) == "" {
			return nil, fmt.Errorf("%s: [[languages]] entry %d: missing tag", path, i+1)
		}
		if strings.TrimSpace(lang.Lexicon) == "" {
			return nil, fmt.Errorf("%s: [[languages]] %q: missing lexicon", path, lang.Tag)
		}
		if _, dup := seen[lang.Tag]; dup {
			return nil, fmt.Errorf("%s: duplicate language tag %q", path, lang.Tag)
		}
		seen[lang.Tag] = struct{}{}
	}

	if !meta.IsDefined("model", "dir") {
		cfg.Model.Dir = DefaultModelDir
	}
	if !meta.IsDefined("model", "order") {
		cfg.Model.Order = langmodel.DefaultOrder
	}
	if !meta.IsDefined("model", "smoothing") {
		cfg.Model.Smoothing = langmodel.DefaultSmoothing
	}
	if !meta.IsDefined("model", "case_fold_min_len") {
		cfg.Model.CaseFoldMinLen = langmodel.DefaultCaseFoldMinLen
	}
	if !meta.IsDefined("decode", "stay_prob") {
		cfg.Decode.StayProb = viterbi.DefaultStayProb
	}
	if !meta.IsDefined("decode", "start_prior") {
		cfg.Decode.StartPrior = DefaultStartPrior
	}
	if cfg.Decode.StartPrior != "lexicon" && cfg.Decode.StartPrior != "uniform" {
		return nil, fmt.Errorf("%s: [decode].start_prior must be \"lexicon\" or \"uniform\", got %q", path, cfg.Decode.StartPrior)
	}

	root := filepath.Dir(path)
	return &Manifest{Path: path, Root: root, Config: cfg}, nil
}

// ModelConfig converts the manifest's [model] section into a builder
// configuration.
func (m *Manifest) ModelConfig() langmodel.Config {
	cfg := langmodel.DefaultConfig()
	cfg.Order = m.Config.Model.Order
	cfg.Smoothing = m.Config.Model.Smoothing
	cfg.MinWordCount = m.Config.Model.MinWordCount
	cfg.CaseFoldMinLen = m.Config.Model.CaseFoldMinLen
	return cfg
}

// ModelDir resolves the model directory relative to the manifest.
func (m *Manifest) ModelDir() string {
	return m.resolve(m.Config.Model.Dir)
}

// LexiconPath resolves a language's lexicon path relative to the
// manifest.
func (m *Manifest) LexiconPath(lang LanguageConfig) string {
	return m.resolve(lang.Lexicon)
}

// StartPrior maps the manifest's start_prior string to the decoder's
// enum.
func (m *Manifest) StartPrior() viterbi.StartPrior {
	if m.Config.Decode.StartPrior == "uniform" {
		return viterbi.StartUniform
	}
	return viterbi.StartLexicon
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}
