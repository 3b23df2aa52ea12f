package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is a single word with its raw occurrence count.
type Entry struct {
	Word  string
	Count int64
}

// Lexicon is an immutable frequency lexicon for one language.
// Counts for duplicate words are aggregated at construction time.
type Lexicon struct {
	entries []Entry
	counts  map[string]int64
	total   int64
}

// FromEntries builds a lexicon from (word, count) pairs.
// Entries with negative counts are rejected.
func FromEntries(entries []Entry) (*Lexicon, error) {
	lex := &Lexicon{counts: make(map[string]int64, len(entries))}
	for _, e := range entries {
		if e.Word == "" {
			return nil, fmt.Errorf("lexicon entry has empty word")
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("lexicon entry %q has negative count %d", e.Word, e.Count)
		}
		if _, seen := lex.counts[e.Word]; !seen {
			lex.entries = append(lex.entries, Entry{Word: e.Word})
		}
		lex.counts[e.Word] += e.Count
		lex.total += e.Count
	}
	for i := range lex.entries {
		lex.entries[i].Count = lex.counts[lex.entries[i].Word]
	}
	return lex, nil
}

// Read parses a frequency lexicon from r.
// The expected format is one "word count" pair per line, whitespace
// separated. Blank lines are skipped; anything else is an error that
// names the offending line.
func Read(r io.Reader) (*Lexicon, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"word count\", got %d fields", lineNo, len(fields))
		}
		count, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count %q: %w", lineNo, fields[1], err)
		}
		if count < 0 {
			return nil, fmt.Errorf("line %d: negative count %d for %q", lineNo, count, fields[0])
		}
		entries = append(entries, Entry{Word: fields[0], Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return FromEntries(entries)
}

// Load reads a frequency lexicon from a file.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	lex, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Count returns the aggregated count for word and whether it is present.
func (l *Lexicon) Count(word string) (int64, bool) {
	c, ok := l.counts[word]
	return c, ok
}

// Total returns the sum of all counts.
func (l *Lexicon) Total() int64 { return l.total }

// Len returns the number of distinct words.
func (l *Lexicon) Len() int { return len(l.entries) }

// Each calls fn for every entry in first-seen order.
func (l *Lexicon) Each(fn func(word string, count int64)) {
	for _, e := range l.entries {
		fn(e.Word, e.Count)
	}
}
