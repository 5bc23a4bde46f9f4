// Package testutil provides deterministic test doubles shared across the
// engine's test suites.
package testutil

import (
	"fmt"
	"sync"
)

// FixedSource is a dice source that replays a scripted sequence of die faces.
// Each queued value is the desired face (1-based); Intn converts it to the
// zero-based form the dice package expects. When the script is exhausted the
// source keeps returning the final value, which keeps long enemy phases
// deterministic without scripting every roll.
//
// FixedSource satisfies the dice.Source interface.
type FixedSource struct {
	mu    sync.Mutex
	faces []int
	pos   int
}

// NewFixedSource creates a FixedSource replaying the given die faces in order.
//
// Precondition: at least one face must be provided; every face must be >= 1.
func NewFixedSource(faces ...int) *FixedSource {
	if len(faces) == 0 {
		panic("testutil: NewFixedSource requires at least one face")
	}
	for _, f := range faces {
		if f < 1 {
			panic(fmt.Sprintf("testutil: die face must be >= 1, got %d", f))
		}
	}
	return &FixedSource{faces: faces}
}

// Intn returns the next scripted face minus one, clamped into [0, n).
func (s *FixedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	face := s.faces[s.pos]
	if s.pos < len(s.faces)-1 {
		s.pos++
	}
	v := face - 1
	if v >= n {
		v = n - 1
	}
	return v
}

// RecorderSink captures presentation-sink log lines by category for
// assertions. It satisfies the combat.Sink interface.
type RecorderSink struct {
	mu        sync.Mutex
	Infos     []string
	Successes []string
	Errors    []string
	Combats   []string
	Criticals []string
}

// Info records an informational line.
func (r *RecorderSink) Info(msg string) { r.record(&r.Infos, msg) }

// Success records a success line.
func (r *RecorderSink) Success(msg string) { r.record(&r.Successes, msg) }

// Error records an error or damage-taken line.
func (r *RecorderSink) Error(msg string) { r.record(&r.Errors, msg) }

// Combat records an encounter banner or attack narration line.
func (r *RecorderSink) Combat(msg string) { r.record(&r.Combats, msg) }

// Critical records an emphasised line (crits, kills, deaths).
func (r *RecorderSink) Critical(msg string) { r.record(&r.Criticals, msg) }

func (r *RecorderSink) record(dst *[]string, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*dst = append(*dst, msg)
}

// All returns every recorded line in category groups, for failure dumps.
func (r *RecorderSink) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	out = append(out, r.Combats...)
	out = append(out, r.Criticals...)
	out = append(out, r.Successes...)
	out = append(out, r.Infos...)
	out = append(out, r.Errors...)
	return out
}
