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

// Package waitqueue implements the closeable multi-producer/multi-consumer
// FIFO spec.md's component 11 calls for: the channel the executor drains to
// pick up posted completions (accept results, read/write results, timer
// fires, state-change and error deliveries) from handler goroutines,
// without an unbounded number of per-event channels.
package waitqueue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push once the queue has been closed.
var ErrClosed = errors.New("waitqueue: closed")

// Job is one unit of posted work: the executor goroutine calls it.
type Job func()

// Queue is a closeable FIFO of Job backed by a buffered channel of fixed
// capacity. It has no unbounded mode.
type Queue struct {
	mu     sync.Mutex
	ch     chan Job
	closed bool
}

// New returns a Queue that buffers up to size jobs; size <= 0 selects a
// buffer of 4096 jobs. Push blocks while the buffer is full.
func New(size int) *Queue {
	if size <= 0 {
		size = 4096
	}
	return &Queue{ch: make(chan Job, size)}
}

// Push enqueues job. Returns ErrClosed if the queue has been closed.
func (q *Queue) Push(job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.mu.Unlock()

	q.ch <- job
	return nil
}

// Chan exposes the receive side for a single consumer (the executor
// goroutine) to range/select over.
func (q *Queue) Chan() <-chan Job {
	return q.ch
}

// Close closes the queue; further Push calls fail, and the channel drains
// to closed-ness once all buffered jobs are consumed.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
