package viterbi

import (
	"fmt"
	"math"
)

// TransitionModel scores language changes between adjacent words.
// States are indices into the ModelSet being decoded against; Start
// plays the role of the transition out of the start pseudo-state.
type TransitionModel interface {
	Start(next int) float64
	LogProb(prev, next int) float64
}

// Uniform assigns the same log-probability to every transition and
// every start state.
type Uniform struct {
	logp float64
}

// NewUniform returns a uniform transition model over n states.
func NewUniform(n int) Uniform {
	if n < 1 {
		n = 1
	}
	return Uniform{logp: -math.Log(float64(n))}
}

func (u Uniform) Start(int) float64 { return u.logp }

func (u Uniform) LogProb(int, int) float64 { return u.logp }

// StartPrior selects how Sticky distributes start probability.
type StartPrior int

const (
	// StartUniform gives every language the same start probability.
	StartUniform StartPrior = iota
	// StartLexicon weights start probability by each model's training
	// token count, so the dominant corpus language starts sentences.
	StartLexicon
)

// Sticky keeps the current language with probability stay and spreads
// the remaining mass evenly over the other languages. Code-switching is
// rare within a sentence, so stay is high by default.
type Sticky struct {
	stayLogProb   float64
	switchLogProb float64
	startLogProb  []float64
}

// DefaultStayProb is the probability that adjacent words share a
// language, tuned on mixed Irish/English text.
const DefaultStayProb = 0.78

// NewSticky builds a sticky transition model over the given per-state
// weights (training token counts; ignored under StartUniform). The stay
// probability must lie strictly between 0 and 1 unless there is only
// one state, where it is forced to 1.
func NewSticky(weights []int64, stay float64, prior StartPrior) (*Sticky, error) {
	n := len(weights)
	if n == 0 {
		return nil, fmt.Errorf("sticky transition needs at least one state")
	}
	s := &Sticky{startLogProb: make([]float64, n)}
	if n == 1 {
		// Only one place to go.
		s.stayLogProb = 0
		s.switchLogProb = 0
		s.startLogProb[0] = 0
		return s, nil
	}
	if stay <= 0 || stay >= 1 {
		return nil, fmt.Errorf("stay probability %g outside (0, 1)", stay)
	}
	s.stayLogProb = math.Log(stay)
	s.switchLogProb = math.Log((1 - stay) / float64(n-1))

	switch prior {
	case StartUniform:
		logp := -math.Log(float64(n))
		for i := range s.startLogProb {
			s.startLogProb[i] = logp
		}
	case StartLexicon:
		var total int64
		for _, w := range weights {
			if w < 0 {
				return nil, fmt.Errorf("negative start weight %d", w)
			}
			total += w
		}
		if total == 0 {
			return nil, fmt.Errorf("start weights sum to zero")
		}
		// Add-one on the weights so a tiny corpus still gets a finite
		// start score.
		denom := math.Log(float64(total + int64(n)))
		for i, w := range weights {
			s.startLogProb[i] = math.Log(float64(w+1)) - denom
		}
	default:
		return nil, fmt.Errorf("unknown start prior %d", prior)
	}
	return s, nil
}

func (s *Sticky) Start(next int) float64 { return s.startLogProb[next] }

func (s *Sticky) LogProb(prev, next int) float64 {
	if prev == next {
		return s.stayLogProb
	}
	return s.switchLogProb
}
