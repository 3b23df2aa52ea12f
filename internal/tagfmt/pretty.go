// Package tagfmt renders tagging results for the terminal and for
// machine consumption.
package tagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"langid/internal/viterbi"
)

// A small palette cycled over languages in model-set order, so the same
// language keeps the same color for a whole run.
var palette = []lipgloss.Color{
	lipgloss.Color("2"), // green
	lipgloss.Color("4"), // blue
	lipgloss.Color("5"), // magenta
	lipgloss.Color("3"), // yellow
	lipgloss.Color("6"), // cyan
	lipgloss.Color("1"), // red
}

var scoreStyle = lipgloss.NewStyle().Faint(true)

// Styles assigns each language a stable lipgloss style.
func Styles(languages []string) map[string]lipgloss.Style {
	styles := make(map[string]lipgloss.Style, len(languages))
	for i, lang := range languages {
		styles[lang] = lipgloss.NewStyle().Foreground(palette[i%len(palette)]).Bold(true)
	}
	return styles
}

// Pretty renders one result as the sentence followed by an aligned
// word/language table:
//
//	the agus
//	  the   en
//	  agus  ga
//	  log-probability -12.3456
func Pretty(w io.Writer, res viterbi.Result, styles map[string]lipgloss.Style, opts PrettyOpts) error {
	words := make([]string, len(res.Tags))
	wordWidth := 0
	for i, tag := range res.Tags {
		words[i] = tag.Word
		if width := runewidth.StringWidth(tag.Word); width > wordWidth {
			wordWidth = width
		}
	}
	if _, err := fmt.Fprintln(w, strings.Join(words, " ")); err != nil {
		return err
	}
	for _, tag := range res.Tags {
		pad := strings.Repeat(" ", wordWidth-runewidth.StringWidth(tag.Word))
		lang := tag.Language
		if opts.Color {
			if style, ok := styles[tag.Language]; ok {
				lang = style.Render(lang)
			}
		}
		if _, err := fmt.Fprintf(w, "  %s%s  %s\n", tag.Word, pad, lang); err != nil {
			return err
		}
	}
	if opts.ShowScore {
		score := fmt.Sprintf("log-probability %.4f", res.LogProb)
		if opts.Color {
			score = scoreStyle.Render(score)
		}
		if _, err := fmt.Fprintf(w, "  %s\n", score); err != nil {
			return err
		}
	}
	return nil
}
