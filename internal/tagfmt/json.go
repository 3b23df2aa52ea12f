package tagfmt

import (
	"encoding/json"
	"io"

	"langid/internal/viterbi"
)

type tagOutput struct {
	Word     string `json:"word"`
	Language string `json:"language"`
}

type resultOutput struct {
	Tokens  []tagOutput `json:"tokens"`
	LogProb float64     `json:"log_prob"`
}

// JSON writes one result as a single JSON object per line.
func JSON(w io.Writer, res viterbi.Result) error {
	out := resultOutput{Tokens: make([]tagOutput, len(res.Tags)), LogProb: res.LogProb}
	for i, tag := range res.Tags {
		out.Tokens[i] = tagOutput{Word: tag.Word, Language: tag.Language}
	}
	return json.NewEncoder(w).Encode(out)
}
