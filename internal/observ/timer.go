// Package observ provides lightweight phase timing for the train and
// identify pipelines, reported under the --timings flag.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed span of the pipeline, such as loading models or
// decoding a batch.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects pipeline phases. Not safe for concurrent use; time a
// whole parallel phase, not the work inside it.
type Timer struct {
	phases []Phase
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Phase starts timing a span and returns the function that ends it.
// The note is attached to the finished phase:
//
//	done := timer.Phase("decode")
//	...
//	done(fmt.Sprintf("%d sentences", n))
func (t *Timer) Phase(name string) func(note string) {
	start := time.Now()
	return func(note string) {
		t.phases = append(t.phases, Phase{
			Name: name,
			Dur:  time.Since(start),
			Note: note,
		})
	}
}

// Summary renders all finished phases and their total, aligned for
// terminal output.
func (t *Timer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", millis(total))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
