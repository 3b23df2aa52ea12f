// Package driver orchestrates the training and identification
// pipelines: it wires lexicons, the model builder, the model store and
// the decoder together and runs batches in parallel.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"langid/internal/config"
	"langid/internal/langmodel"
	"langid/internal/lexicon"
	"langid/internal/modelstore"
	"langid/internal/tokenize"
	"langid/internal/viterbi"
)

// TrainResult is the outcome of building one language's model.
type TrainResult struct {
	Tag    string
	Path   string
	Words  int
	Ngrams int
	Tokens int64
	Err    error
}

// TrainAll builds and stores a model for every language in the
// manifest, up to jobs languages in parallel. Per-language failures are
// recorded in the results rather than aborting the other builds; the
// returned error is reserved for setup failures and context
// cancellation.
func TrainAll(ctx context.Context, manifest *config.Manifest, jobs int) ([]TrainResult, error) {
	store, err := modelstore.Open(manifest.ModelDir())
	if err != nil {
		return nil, err
	}
	cfg := manifest.ModelConfig()
	langs := manifest.Config.Languages
	results := make([]TrainResult, len(langs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeJobs(jobs))
	for i, lang := range langs {
		i, lang := i, lang
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = trainOne(store, manifest, lang, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func trainOne(store *modelstore.Store, manifest *config.Manifest, lang config.LanguageConfig, cfg langmodel.Config) TrainResult {
	res := TrainResult{Tag: lang.Tag, Path: store.Path(lang.Tag)}
	lex, err := lexicon.Load(manifest.LexiconPath(lang))
	if err != nil {
		res.Err = err
		return res
	}
	m, err := langmodel.Build(lang.Tag, lex, cfg)
	if err != nil {
		res.Err = fmt.Errorf("failed to build model for %q: %w", lang.Tag, err)
		return res
	}
	if err := store.Save(m); err != nil {
		res.Err = err
		return res
	}
	res.Words = len(m.UnigramLogProb)
	res.Ngrams = len(m.NgramLogProb)
	res.Tokens = m.TotalTokens
	return res
}

// Method selects the decoding algorithm.
type Method string

const (
	MethodViterbi     Method = "viterbi"
	MethodIndependent Method = "independent"
)

// SentenceResult pairs one input sentence with its decode outcome.
type SentenceResult struct {
	Input  string
	Tokens []string
	Result viterbi.Result
	Err    error
}

// IdentifyOptions configures a batch identification run.
type IdentifyOptions struct {
	Method    Method
	Jobs      int
	Tokenizer tokenize.Tokenizer
}

// IdentifyAll decodes every sentence against the model set, up to jobs
// sentences in parallel, and returns the results in input order. A
// sentence that fails to decode carries its error in its slot; the
// batch is only aborted by an empty model set or a cancelled context.
func IdentifyAll(ctx context.Context, set viterbi.ModelSet, trans viterbi.TransitionModel, sentences []string, opts IdentifyOptions) ([]SentenceResult, error) {
	if len(set) == 0 {
		return nil, viterbi.ErrEmptyModelSet
	}
	tok := opts.Tokenizer
	if tok == nil {
		tok = tokenize.Whitespace{}
	}
	method := opts.Method
	if method == "" {
		method = MethodViterbi
	}
	if method != MethodViterbi && method != MethodIndependent {
		return nil, fmt.Errorf("unknown decode method %q", method)
	}
	if method == MethodViterbi && trans == nil {
		trans = viterbi.NewUniform(len(set))
	}

	results := make([]SentenceResult, len(sentences))

	// The models are immutable after training, so workers share the set
	// by reference without locking.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeJobs(opts.Jobs))
	for i, input := range sentences {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := SentenceResult{Input: input, Tokens: tok.Tokenize(input)}
			switch method {
			case MethodIndependent:
				res.Result, res.Err = viterbi.DecodeIndependent(res.Tokens, set)
			default:
				res.Result, res.Err = viterbi.Decode(res.Tokens, set, trans)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Transition builds the transition model the manifest's [decode]
// section describes for the given model set.
func Transition(set viterbi.ModelSet, stayProb float64, prior viterbi.StartPrior) (viterbi.TransitionModel, error) {
	weights := make([]int64, len(set))
	for i, m := range set {
		weights[i] = m.TotalTokens
	}
	return viterbi.NewSticky(weights, stayProb, prior)
}

func normalizeJobs(jobs int) int {
	if jobs < 1 {
		return runtime.NumCPU()
	}
	return jobs
}
