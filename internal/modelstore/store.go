// Package modelstore persists trained language models as msgpack files,
// one per language, under a model directory.
package modelstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"langid/internal/langmodel"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

const fileSuffix = ".model.mp"

// ErrBadModelFile indicates a model file that could not be decoded or
// whose contents violate the model invariants.
var ErrBadModelFile = errors.New("bad model file")

// Store reads and writes model files in a single directory.
type Store struct {
	dir string
}

// payload is the on-disk form of a model. It mirrors langmodel.Model
// plus a schema version for safe invalidation.
type payload struct {
	Schema uint16

	Language       string
	Order          uint8
	CaseFoldMinLen uint8
	BoundaryStart  rune
	BoundaryEnd    rune

	UnigramLogProb map[string]float64
	NgramLogProb   map[string]float64
	UnknownLogProb float64
	TotalTokens    int64
}

// Open ensures the model directory exists and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a language's model is stored at.
func (s *Store) Path(language string) string {
	return filepath.Join(s.dir, language+fileSuffix)
}

// Save serializes the model to its per-language file. The write goes
// through a temp file and an atomic rename so readers never observe a
// partial model.
func (s *Store) Save(m *langmodel.Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid model %q: %w", m.Language, err)
	}
	order, err := safecast.Conv[uint8](m.Order)
	if err != nil {
		return fmt.Errorf("ngram order %d does not fit the model file format: %w", m.Order, err)
	}
	foldLen, err := safecast.Conv[uint8](m.CaseFoldMinLen)
	if err != nil {
		return fmt.Errorf("case-fold length %d does not fit the model file format: %w", m.CaseFoldMinLen, err)
	}
	p := &payload{
		Schema:         schemaVersion,
		Language:       m.Language,
		Order:          order,
		CaseFoldMinLen: foldLen,
		BoundaryStart:  m.BoundaryStart,
		BoundaryEnd:    m.BoundaryEnd,
		UnigramLogProb: m.UnigramLogProb,
		NgramLogProb:   m.NgramLogProb,
		UnknownLogProb: m.UnknownLogProb,
		TotalTokens:    m.TotalTokens,
	}

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(p); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode model %q: %w", m.Language, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path(m.Language))
}

// Load reads a language's model. The boolean reports whether the file
// existed; decode failures and invariant violations come back wrapped
// in ErrBadModelFile.
func (s *Store) Load(language string) (*langmodel.Model, bool, error) {
	f, err := os.Open(s.Path(language))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var p payload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&p); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrBadModelFile, s.Path(language), err)
	}
	if p.Schema != schemaVersion {
		return nil, true, fmt.Errorf("%w: %s: schema %d, want %d", ErrBadModelFile, s.Path(language), p.Schema, schemaVersion)
	}

	m := &langmodel.Model{
		Language:       p.Language,
		Order:          int(p.Order),
		CaseFoldMinLen: int(p.CaseFoldMinLen),
		BoundaryStart:  p.BoundaryStart,
		BoundaryEnd:    p.BoundaryEnd,
		UnigramLogProb: p.UnigramLogProb,
		NgramLogProb:   p.NgramLogProb,
		UnknownLogProb: p.UnknownLogProb,
		TotalTokens:    p.TotalTokens,
	}
	if err := m.Validate(); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrBadModelFile, s.Path(language), err)
	}
	return m, true, nil
}

// List returns the language tags of every model file in the store,
// sorted for a stable decode state order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list model directory: %w", err)
	}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, fileSuffix))
	}
	sort.Strings(langs)
	return langs, nil
}

// LoadSet loads the models for the given languages in order. Every
// language must be present.
func (s *Store) LoadSet(languages []string) ([]*langmodel.Model, error) {
	set := make([]*langmodel.Model, 0, len(languages))
	for _, lang := range languages {
		m, found, err := s.Load(lang)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("no model for %q in %s (run train first)", lang, s.dir)
		}
		set = append(set, m)
	}
	return set, nil
}
