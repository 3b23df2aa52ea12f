package tagfmt

import (
	"fmt"
	"io"

	"langid/internal/viterbi"
)

// TSV writes one word<TAB>language line per token, a comment line with
// the sequence log-probability, and a blank line terminating the
// sentence.
func TSV(w io.Writer, res viterbi.Result) error {
	for _, tag := range res.Tags {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", tag.Word, tag.Language); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "# log_prob\t%.6f\n", res.LogProb); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
