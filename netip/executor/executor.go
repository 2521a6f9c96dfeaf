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

// Package executor implements the single-threaded cooperative scheduler
// spec.md §5 requires: one goroutine drains a job queue and runs every
// posted closure to completion before the next, so application-visible
// mutation (queue pushes/pops, state-change and error callbacks) is always
// serialized, however many goroutines are concurrently blocked in the
// underlying socket syscalls that produce those jobs.
//
// Blocking reads/writes/accepts/connects themselves run on their own
// goroutines — Go's netpoller already multiplexes those onto a small
// number of OS threads — and post one Job back onto the executor when they
// complete, mirroring spec.md's "every async operation is a suspension
// point" model without requiring a non-blocking socket layer.
package executor

import (
	"context"
	"sync"

	"github.com/nabbar/netip/netip/waitqueue"
	"github.com/nabbar/netip/runner"
	"github.com/nabbar/netip/runner/startStop"
)

// Job is a unit of work that runs on the executor goroutine.
type Job = waitqueue.Job

// Executor is one engine's single-threaded scheduler.
type Executor struct {
	q  *waitqueue.Queue
	rs startStop.StartStop

	mu      sync.Mutex
	started bool
}

// New returns an Executor with no running goroutine yet; call Run to start
// draining posted jobs.
func New() *Executor {
	e := &Executor{q: waitqueue.New(0)}
	e.rs = startStop.New(e.loop, e.halt)
	return e
}

// Post enqueues job to run on the executor goroutine. Safe from any
// goroutine; this is the only thread-safe modifying entry point other
// packages should use to touch executor-owned state.
func (e *Executor) Post(job Job) {
	_ = e.q.Push(job)
}

// Run starts the executor goroutine; it drains jobs until ctx is
// cancelled or Stop is called.
func (e *Executor) Run(ctx context.Context) error {
	return e.rs.Start(ctx)
}

// Stop cancels the executor goroutine and waits for it to exit.
func (e *Executor) Stop(ctx context.Context) error {
	return e.rs.Stop(ctx)
}

func (e *Executor) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job, ok := <-e.q.Chan():
			if !ok {
				return nil
			}
			e.runJob(job)
		}
	}
}

// runJob runs job with panic recovery, so one misbehaving callback cannot
// take down the single goroutine every other posted job depends on.
func (e *Executor) runJob(job Job) {
	defer func() {
		runner.RecoveryCaller("netip/executor", recover())
	}()

	job()
}

func (e *Executor) halt(_ context.Context) error {
	return nil
}
