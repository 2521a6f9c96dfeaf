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

// Package queue implements the per-connection output FIFO: a queue of
// pending send buffers plus atomic byte/entry counters. Mutation happens
// only from the owning handler's executor goroutine; the counters may be
// read from any goroutine for monitoring.
package queue

import (
	"net"
	"sync/atomic"

	"github.com/nabbar/netip/netip/buffer"
)

// Entry pairs a buffer with an optional destination endpoint. Endpoint is
// non-nil only for UDP sends targeting a non-default destination.
type Entry struct {
	Buf      buffer.Buffer
	Endpoint net.Addr
}

// Queue is a FIFO of Entry plus live size/byte counters.
type Queue struct {
	entries []Entry
	size    atomic.Int64
	bytes   atomic.Int64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{entries: make([]Entry, 0, 8)}
}

// Push appends e at the tail. Never fails. Executor-thread-only.
func (q *Queue) Push(e Entry) {
	q.entries = append(q.entries, e)
	q.size.Add(1)
	q.bytes.Add(int64(e.Buf.Len()))
}

// Pop removes and returns the head entry, if any. Executor-thread-only.
func (q *Queue) Pop() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}

	e := q.entries[0]
	q.entries = q.entries[1:]
	q.size.Add(-1)
	q.bytes.Add(-int64(e.Buf.Len()))

	return e, true
}

// Stats returns the current entry count and total queued bytes. Safe to
// call from any goroutine.
func (q *Queue) Stats() (size int64, bytes int64) {
	return q.size.Load(), q.bytes.Load()
}
