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

// Package semaphore bounds the number of concurrent workers (accepted
// connections, outstanding connect attempts, handler goroutines) behind a
// context.Context-shaped handle, so callers can select on Done() the same way
// they would on any other context while also acquiring/releasing weighted
// worker slots.
package semaphore

import (
	"context"
	"time"
)

// Sem is a bounded worker pool addressable as a context.Context. Cancelling
// the parent context passed to New propagates to Done()/Err() and causes any
// blocked NewWorker call to return ctx.Err().
type Sem interface {
	context.Context

	// NewWorker blocks until a slot is available or the context is done.
	NewWorker() error

	// NewWorkerTry acquires a slot without blocking, returning false if none
	// is free.
	NewWorkerTry() bool

	// DeferWorker releases one previously acquired slot.
	DeferWorker()

	// DeferMain cancels the semaphore's own context, releasing anyone
	// blocked in NewWorker and marking the semaphore done.
	DeferMain()

	// WaitAll blocks until every acquired worker slot has been released, or
	// until the context is done.
	WaitAll() error

	// Weighted returns the configured capacity (size), or -1 when New was
	// called with an unbounded/negative size.
	Weighted() int64

	// New returns a fresh semaphore with this one's size and a context
	// derived from this one's context, so DeferMain on this semaphore also
	// cancels the new one.
	New() Sem
}

// New builds a Sem bounding concurrency to size simultaneous workers. A size
// <= 0 means unbounded (NewWorker/NewWorkerTry always succeed). withProgress
// is accepted for API parity with the teacher's progress-bar-backed pool but
// is not wired to any rendering backend here; see the repository notes on
// dropped teacher dependencies.
func New(ctx context.Context, size int, withProgress bool) Sem {
	return newModel(ctx, size, withProgress)
}
