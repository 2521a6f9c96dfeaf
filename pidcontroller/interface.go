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

// Package pidcontroller implements a minimal PID (proportional/integral/
// derivative) controller used to space out a sequence of values between a
// start and an end point - the shape needed by duration.RangeTo to build a
// reconnect backoff schedule that starts small. The raw sequence can
// overshoot the end value and oscillate before it settles; a caller that
// needs a hard maximum clamps it (tcp.PolicyBackoff caps every delay at its
// ceiling).
package pidcontroller

import "context"

// PID generates a converging sequence of set points between two bounds.
type PID interface {
	// RangeCtx returns the sequence of values produced while driving the
	// controller from start to end, stopping early if ctx is cancelled.
	RangeCtx(ctx context.Context, start, end float64) []float64

	// Range is RangeCtx with a background context.
	Range(start, end float64) []float64
}

// New builds a PID with the given proportional, integral and derivative
// rates.
func New(rateP, rateI, rateD float64) PID {
	return &pid{
		kp: rateP,
		ki: rateI,
		kd: rateD,
	}
}
