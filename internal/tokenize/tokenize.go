package tokenize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits raw text into word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Whitespace splits on Unicode whitespace and NFC-normalizes the input
// first, so that composed and decomposed spellings of the same word
// produce identical tokens.
type Whitespace struct{}

func (Whitespace) Tokenize(text string) []string {
	return strings.Fields(norm.NFC.String(text))
}
