// Package viterbi assigns a language to each word of a sentence by
// maximum-probability decoding over a set of trained language models.
package viterbi

import (
	"errors"
	"fmt"
	"math"

	"langid/internal/langmodel"
)

var (
	// ErrEmptyModelSet indicates a decode call with no models.
	ErrEmptyModelSet = errors.New("model set is empty")
	// ErrMalformedModel indicates a model that produced a non-finite
	// emission score, which a correctly built model cannot do.
	ErrMalformedModel = errors.New("malformed model")
)

// ModelSet is the ordered list of candidate language models. The order
// defines the decoder's state space and the tie-break preference: on
// equal scores the earlier model wins.
type ModelSet []*langmodel.Model

// Tag is one word with its assigned language.
type Tag struct {
	Word     string
	Language string
}

// Result is the decoded language sequence for one sentence together
// with its total log-probability.
type Result struct {
	Tags    []Tag
	LogProb float64
}

// Decode finds the most probable per-word language assignment for the
// sentence using the Viterbi recurrence over the model set, scoring
// emissions with each model and moves with the transition model.
//
// An empty sentence decodes to an empty result with log-probability 0.
func Decode(sentence []string, set ModelSet, trans TransitionModel) (Result, error) {
	k := len(set)
	if k == 0 {
		return Result{}, ErrEmptyModelSet
	}
	n := len(sentence)
	if n == 0 {
		return Result{Tags: []Tag{}}, nil
	}

	emit := func(word string, state int) (float64, error) {
		logp := set[state].EmissionScore(word)
		if math.IsInf(logp, 0) || math.IsNaN(logp) {
			return 0, fmt.Errorf("%w: %s scored %q as %v", ErrMalformedModel, set[state].Language, word, logp)
		}
		return logp, nil
	}

	// V[s] is the best cumulative log-probability of any path ending in
	// state s at the current position; back[i][s] the maximizing
	// predecessor.
	prev := make([]float64, k)
	cur := make([]float64, k)
	back := make([][]int, n)

	for s := 0; s < k; s++ {
		logp, err := emit(sentence[0], s)
		if err != nil {
			return Result{}, err
		}
		prev[s] = trans.Start(s) + logp
	}

	for i := 1; i < n; i++ {
		back[i] = make([]int, k)
		for s := 0; s < k; s++ {
			best := math.Inf(-1)
			bestPrev := 0
			for p := 0; p < k; p++ {
				// Strict improvement only: ties keep the lowest index.
				if score := prev[p] + trans.LogProb(p, s); score > best {
					best = score
					bestPrev = p
				}
			}
			logp, err := emit(sentence[i], s)
			if err != nil {
				return Result{}, err
			}
			cur[s] = best + logp
			back[i][s] = bestPrev
		}
		prev, cur = cur, prev
	}

	last := 0
	for s := 1; s < k; s++ {
		if prev[s] > prev[last] {
			last = s
		}
	}

	states := make([]int, n)
	states[n-1] = last
	for i := n - 1; i > 0; i-- {
		states[i-1] = back[i][states[i]]
	}

	res := Result{Tags: make([]Tag, n), LogProb: prev[last]}
	for i, s := range states {
		res.Tags[i] = Tag{Word: sentence[i], Language: set[s].Language}
	}
	return res, nil
}

// DecodeIndependent tags every word with the model giving it the best
// emission score, ignoring context. Kept as a baseline next to Decode;
// its log-probability is the plain sum of the winning emissions.
func DecodeIndependent(sentence []string, set ModelSet) (Result, error) {
	if len(set) == 0 {
		return Result{}, ErrEmptyModelSet
	}
	res := Result{Tags: make([]Tag, len(sentence))}
	for i, word := range sentence {
		best := math.Inf(-1)
		bestState := 0
		for s, m := range set {
			logp := m.EmissionScore(word)
			if math.IsInf(logp, 0) || math.IsNaN(logp) {
				return Result{}, fmt.Errorf("%w: %s scored %q as %v", ErrMalformedModel, m.Language, word, logp)
			}
			if logp > best {
				best = logp
				bestState = s
			}
		}
		res.Tags[i] = Tag{Word: word, Language: set[bestState].Language}
		res.LogProb += best
	}
	return res, nil
}

// Languages returns the model tags in state order.
func (set ModelSet) Languages() []string {
	langs := make([]string, len(set))
	for i, m := range set {
		langs[i] = m.Language
	}
	return langs
}
