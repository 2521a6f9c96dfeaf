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
	"context"
	"net"
	"sync"

	liberr "github.com/nabbar/netip/errors"
	"github.com/nabbar/netip/logger"
	"github.com/nabbar/netip/netip/entity"
	"github.com/nabbar/netip/netip/executor"
	"github.com/nabbar/netip/netip/handle"
	"github.com/nabbar/netip/semaphore"
	"github.com/nabbar/netip/socket"
)

// child records one accepted connection's I/O handler alongside the
// generation it was registered under, so later lookups (childStopped,
// VisitIoOutput) can rebuild the exact handle.IoInterface that was handed
// out at accept time instead of minting a fresh registration.
type child struct {
	h   *IoHandler
	gen uint64
}

// Acceptor listens on one TCP endpoint and owns the child I/O handlers it
// spawns for each accepted connection, per spec.md §4.6.
type Acceptor struct {
	common *entity.Common
	addr   string
	reuse  bool
	exec   *executor.Executor
	arena  *handle.Registry
	sem    semaphore.Sem

	ln net.Listener

	mu       sync.Mutex
	children map[uint64]child
}

// NewAcceptor builds an Acceptor bound to addr. maxChildren <= 0 means
// unbounded concurrent children.
func NewAcceptor(addr string, reuseAddr bool, exec *executor.Executor, arena *handle.Registry, maxChildren int) *Acceptor {
	a := &Acceptor{
		common:   &entity.Common{},
		addr:     addr,
		reuse:    reuseAddr,
		exec:     exec,
		arena:    arena,
		children: make(map[uint64]child),
	}
	if maxChildren > 0 {
		a.sem = semaphore.New(context.Background(), maxChildren, false)
	}
	return a
}

// IsStarted reports whether the acceptor is listening.
func (a *Acceptor) IsStarted() bool { return a.common.IsStarted() }

// SetLogger installs the optional logger used for Debug transition tracing
// and Error propagation logging.
func (a *Acceptor) SetLogger(l logger.Logger) { a.common.SetLogger(l) }

// Start binds the listening socket (honoring reuseAddr) and begins the
// accept loop.
func (a *Acceptor) Start(onStateChange handle.StateChangeFunc, onError handle.ErrorFunc) error {
	ok, err := a.common.Begin(onStateChange, onError)
	if !ok {
		return err
	}

	ln, lerr := net.Listen("tcp", a.addr)
	if lerr != nil {
		a.common.LogError("tcp acceptor: listen failed", lerr)
		return liberr.CodeIOError.Error(lerr)
	}

	if a.reuse {
		if tl, isTCP := ln.(*net.TCPListener); isTCP {
			_ = socket.SetReuseAddress(tl, true)
		}
	}

	a.ln = ln
	a.common.LogDebug("tcp acceptor: listening", a.addr)
	go a.acceptLoop()

	return nil
}

func (a *Acceptor) acceptLoop() {
	for {
		if a.sem != nil {
			if err := a.sem.NewWorker(); err != nil {
				return
			}
		}

		conn, err := a.ln.Accept()
		if err != nil {
			a.common.LogError("tcp acceptor: accept failed", err)
			a.common.Error(handle.IoInterface{}, liberr.CodeIOError.Error(err))
			_ = a.Stop()
			return
		}

		id, gen := a.arena.Reserve()
		h := New(id, conn, a.exec, a.childStopped)
		a.arena.Fill(id, gen, handle.IoHandler(h))
		io := handle.NewIoInterface(a.arena, id, gen)

		a.exec.Post(func() {
			a.mu.Lock()
			a.children[id] = child{h: h, gen: gen}
			count := len(a.children)
			a.mu.Unlock()

			a.common.StateChange(io, count, true)
		})
	}
}

func (a *Acceptor) childStopped(id uint64, err error) {
	a.exec.Post(func() {
		a.mu.Lock()
		c, found := a.children[id]
		delete(a.children, id)
		count := len(a.children)
		a.mu.Unlock()

		if !found {
			return
		}

		io := handle.NewIoInterface(a.arena, id, c.gen)
		a.arena.Remove(id)
		a.common.StateChange(io, count, false)

		if err != nil {
			a.common.Error(io, err)
		}

		if a.sem != nil {
			a.sem.DeferWorker()
		}
	})
}

// Stop tears down every child, closes the listener, and delivers the
// CodeAcceptorStopped sentinel.
func (a *Acceptor) Stop() error {
	ok, err := a.common.End()
	if !ok {
		return err
	}

	a.mu.Lock()
	children := make([]child, 0, len(a.children))
	for _, c := range a.children {
		children = append(children, c)
	}
	a.children = make(map[uint64]child)
	a.mu.Unlock()

	for _, c := range children {
		_ = c.h.StopIo()
	}

	if a.ln != nil {
		_ = a.ln.Close()
	}

	a.common.Error(handle.IoInterface{}, liberr.CodeAcceptorStopped.Error())

	return nil
}

// VisitSocket applies fn to the listening socket.
func (a *Acceptor) VisitSocket(fn func(sock any) error) error {
	if a.ln == nil {
		return liberr.CodeAlreadyStopped.Error()
	}
	return fn(a.ln)
}

// VisitIoOutput applies fn to every currently active child, reusing each
// child's own (id, gen) registration, and returns the count visited.
func (a *Acceptor) VisitIoOutput(fn func(handle.IoOutput) bool) int {
	a.mu.Lock()
	type entry struct {
		id uint64
		c  child
	}
	children := make([]entry, 0, len(a.children))
	for id, c := range a.children {
		children = append(children, entry{id: id, c: c})
	}
	a.mu.Unlock()

	count := 0
	for _, e := range children {
		out := handle.NewIoInterface(a.arena, e.id, e.c.gen).MakeIoOutput()
		count++
		if !fn(out) {
			break
		}
	}
	return count
}
