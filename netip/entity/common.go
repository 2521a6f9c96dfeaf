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

// Package entity holds the start/stop/callback plumbing shared by
// TcpAcceptor, TcpConnector, and UdpEntity: a single start-stop cycle
// guarded by atomics, plus the two application callbacks every entity
// delivers through its owning executor.
package entity

import (
	"sync/atomic"

	liberr "github.com/nabbar/netip/errors"
	"github.com/nabbar/netip/logger"
	"github.com/nabbar/netip/netip/handle"
)

// Common implements the start/stop compare-and-swap and callback storage
// shared by every entity kind. The callback types (handle.StateChangeFunc,
// handle.ErrorFunc) live in package handle, not here, so that they can
// carry a real handle.IoInterface without handle and entity importing each
// other. It also carries the optional logger every long-lived component
// (TcpAcceptor, TcpConnector, UdpEntity) accepts at construction: logging
// is strictly additional and must never change callback-observable
// behavior.
type Common struct {
	started atomic.Bool
	stopped atomic.Bool

	onStateChange atomic.Pointer[handle.StateChangeFunc]
	onError       atomic.Pointer[handle.ErrorFunc]

	log atomic.Pointer[logger.Logger]
}

// SetLogger installs the logger used for Debug-level transition tracing
// and Error-level propagated-failure logging. Safe to call at any time,
// including before Start.
func (c *Common) SetLogger(l logger.Logger) {
	if l == nil {
		return
	}
	c.log.Store(&l)
}

// LogDebug logs a routine transition, if a logger is installed.
func (c *Common) LogDebug(message string, data any) {
	if p := c.log.Load(); p != nil && *p != nil {
		(*p).Debug(message, data)
	}
}

// LogError logs a propagated failure, if a logger is installed.
func (c *Common) LogError(message string, err error) {
	if p := c.log.Load(); p != nil && *p != nil {
		(*p).Error(message, err)
	}
}

// Begin performs the single allowed start transition: it returns true (and
// stores the callbacks) only the first time it is called, and only if End
// has not been called. A second call returns false, CodeAlreadyStarted; a
// call after End returns false, CodeAlreadyStopped.
func (c *Common) Begin(onStateChange handle.StateChangeFunc, onError handle.ErrorFunc) (bool, error) {
	if c.stopped.Load() {
		return false, liberr.CodeAlreadyStopped.Error()
	}
	if !c.started.CompareAndSwap(false, true) {
		return false, liberr.CodeAlreadyStarted.Error()
	}

	if onStateChange != nil {
		c.onStateChange.Store(&onStateChange)
	}
	if onError != nil {
		c.onError.Store(&onError)
	}

	return true, nil
}

// End performs the single allowed stop transition: true the first time,
// false (CodeAlreadyStopped) thereafter.
func (c *Common) End() (bool, error) {
	if !c.stopped.CompareAndSwap(false, true) {
		return false, liberr.CodeAlreadyStopped.Error()
	}
	return true, nil
}

// IsStarted reports whether Begin has succeeded and End has not been called.
func (c *Common) IsStarted() bool {
	return c.started.Load() && !c.stopped.Load()
}

// StateChange invokes the registered state-change callback, if any.
func (c *Common) StateChange(io handle.IoInterface, count int, starting bool) {
	if f := c.onStateChange.Load(); f != nil && *f != nil {
		(*f)(io, count, starting)
	}
}

// Error invokes the registered error callback, if any.
func (c *Common) Error(io handle.IoInterface, err error) {
	if f := c.onError.Load(); f != nil && *f != nil {
		(*f)(io, err)
	}
}
