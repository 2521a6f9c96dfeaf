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

// Package iohandler holds the per-connection state shared by TCP and UDP
// I/O handlers: the started flag, the in-progress write flag, the output
// queue, the cached remote endpoint, and the notifier used to tell the
// parent entity that this handler has torn down.
package iohandler

import (
	"net"
	"sync/atomic"

	"github.com/nabbar/netip/netip/queue"
)

// Notifier is invoked exactly once, when the handler has finished tearing
// down, carrying the id the parent entity gave it and the terminal error
// (nil for an orderly stop).
type Notifier func(id uint64, err error)

// Common is the state every I/O handler (TCP or UDP) embeds.
type Common struct {
	id              uint64
	started         atomic.Bool
	writeInProgress bool // executor-goroutine-only
	Queue           *queue.Queue
	remote          net.Addr
	notify          Notifier
}

// New returns a Common identified by id, delivering teardown notifications
// to notify.
func New(id uint64, notify Notifier) *Common {
	return &Common{
		id:     id,
		Queue:  queue.New(),
		notify: notify,
	}
}

// ID returns the identifier the parent entity assigned this handler.
func (c *Common) ID() uint64 {
	return c.id
}

// IsStarted reports whether StartIoSetup has succeeded and Stop has not
// since been called. Safe from any goroutine.
func (c *Common) IsStarted() bool {
	return c.started.Load()
}

// StartIoSetup marks the handler started and caches remote. Returns false
// if the handler was already started.
func (c *Common) StartIoSetup(remote net.Addr) bool {
	if !c.started.CompareAndSwap(false, true) {
		return false
	}
	c.remote = remote
	return true
}

// RemoteAddr returns the cached remote endpoint.
func (c *Common) RemoteAddr() net.Addr {
	return c.remote
}

// StartWriteSetup decides whether the caller should initiate a new async
// write or whether the entry was merely queued behind one in flight.
// Executor-thread-only.
func (c *Common) StartWriteSetup(e queue.Entry) bool {
	if !c.IsStarted() {
		return false
	}

	if c.writeInProgress {
		c.Queue.Push(e)
		return false
	}

	c.writeInProgress = true
	return true
}

// NextWrite pops the next queued entry, if any, keeping writeInProgress in
// sync with whether a write was actually handed back. Executor-thread-only.
func (c *Common) NextWrite() (queue.Entry, bool) {
	if !c.IsStarted() {
		return queue.Entry{}, false
	}

	e, ok := c.Queue.Pop()
	c.writeInProgress = ok
	return e, ok
}

// Stop clears started and writeInProgress. Executor-thread-only.
func (c *Common) Stop() {
	c.started.Store(false)
	c.writeInProgress = false
}

// NotifyError invokes the entity notifier, if err is non-nil.
func (c *Common) NotifyError(err error) {
	if err != nil && c.notify != nil {
		c.notify(c.id, err)
	}
}

// NotifyStopped invokes the entity notifier with a nil error, signaling an
// orderly teardown.
func (c *Common) NotifyStopped() {
	if c.notify != nil {
		c.notify(c.id, nil)
	}
}
