/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package tcp

import (
	"time"

	"github.com/nabbar/netip/duration"
)

// policyKind tags which reconnect strategy a ReconnectPolicy holds.
type policyKind int

const (
	policyNever policyKind = iota
	policyFixed
	policyBackoff
)

// ReconnectPolicy governs whether and how a Connector schedules another
// connect attempt after a full pass over the endpoint list fails, per
// spec.md §4.7.
type ReconnectPolicy struct {
	kind  policyKind
	fixed time.Duration
	seq   []time.Duration
}

// PolicyNever never reconnects: one failed pass transitions straight to
// Stopped.
func PolicyNever() ReconnectPolicy {
	return ReconnectPolicy{kind: policyNever}
}

// PolicyFixedInterval retries every d indefinitely.
func PolicyFixedInterval(d time.Duration) ReconnectPolicy {
	return ReconnectPolicy{kind: policyFixed, fixed: d}
}

// PolicyBackoff builds a wait sequence from initial up to ceiling using
// duration.Duration's PID-driven RangeDefTo (see DESIGN.md: this is what
// pulls the pidcontroller package into this module at all, by way of
// duration rather than directly) as the source of step boundaries, then
// clamps the raw steps to be non-decreasing and never past ceiling: the PID
// recurrence overshoots and oscillates before settling (that's what makes
// it useful for Range's other callers), but a reconnect backoff must only
// ever wait longer, never less, between attempts. The last element of the
// sequence repeats once exhausted, so the connector settles at ceiling
// rather than stopping.
func PolicyBackoff(initial, ceiling time.Duration) ReconnectPolicy {
	steps := duration.ParseDuration(initial).RangeDefTo(duration.ParseDuration(ceiling))

	seq := make([]time.Duration, 0, len(steps))
	prev := initial
	for _, s := range steps {
		d := s.Time()
		if d < prev {
			d = prev
		}
		if d > ceiling {
			d = ceiling
		}
		seq = append(seq, d)
		prev = d
	}
	if len(seq) == 0 {
		seq = append(seq, initial)
	}

	return ReconnectPolicy{kind: policyBackoff, seq: seq}
}

// next returns the wait duration for the attempt'th (0-based) reconnect
// and whether the policy permits an attempt at all.
func (p ReconnectPolicy) next(attempt int) (time.Duration, bool) {
	switch p.kind {
	case policyNever:
		return 0, false
	case policyFixed:
		return p.fixed, true
	case policyBackoff:
		if len(p.seq) == 0 {
			return 0, false
		}
		if attempt >= len(p.seq) {
			return p.seq[len(p.seq)-1], true
		}
		return p.seq[attempt], true
	default:
		return 0, false
	}
}
