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

// Package netip is the top-level async TCP/UDP networking runtime: an
// Engine composes TCP acceptors, TCP connectors, and UDP entities behind
// one shared executor and handle arena, per spec.md §4.10.
package netip

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nabbar/netip/logger"
	"github.com/nabbar/netip/netip/executor"
	"github.com/nabbar/netip/netip/handle"
	"github.com/nabbar/netip/netip/metrics"
	"github.com/nabbar/netip/netip/tcp"
	"github.com/nabbar/netip/netip/udp"
	"github.com/nabbar/netip/runner/ticker"
)

// Engine owns the single-threaded executor and the handle arena shared by
// every acceptor, connector, and UDP entity it constructs.
type Engine struct {
	exec  *executor.Executor
	arena *handle.Registry
	log   logger.Logger
	mtr   *metrics.Collector

	mu       sync.Mutex
	entities map[uint64]uint64 // top-level entity id -> gen, for RemoveAll
}

// New returns an idle Engine. Call Run to start draining the executor
// before constructing or starting any acceptor/connector/entity.
func New() *Engine {
	return &Engine{
		exec:     executor.New(),
		arena:    handle.NewRegistry(),
		entities: make(map[uint64]uint64),
	}
}

// SetLogger installs the logger propagated to every entity this Engine
// constructs from this point on.
func (e *Engine) SetLogger(l logger.Logger) { e.log = l }

// SetMetrics installs the Prometheus collector propagated to every
// TcpConnector this Engine constructs from this point on.
func (e *Engine) SetMetrics(m *metrics.Collector) { e.mtr = m }

// Run starts the executor goroutine; it drains posted jobs until ctx is
// cancelled or Stop is called. Per spec.md, the engine itself doesn't run
// the executor inline — "a separate worker abstraction runs it" — so Run
// is expected to be called from its own goroutine by the embedding
// application.
func (e *Engine) Run(ctx context.Context) error {
	return e.exec.Run(ctx)
}

// Stop cancels the executor goroutine and waits (up to the context
// deadline) for it to exit.
func (e *Engine) Stop(ctx context.Context) error {
	return e.exec.Stop(ctx)
}

func (e *Engine) register(obj any, kind handle.Kind) handle.NetEntity {
	id, gen := e.arena.Reserve()
	e.arena.Fill(id, gen, obj)

	e.mu.Lock()
	e.entities[id] = gen
	e.mu.Unlock()

	return handle.NewNetEntity(e.arena, id, gen, kind)
}

// MakeTcpAcceptor constructs and registers a TcpAcceptor listening on addr.
// maxChildren <= 0 means unbounded concurrent accepted connections.
func (e *Engine) MakeTcpAcceptor(addr string, reuseAddr bool, maxChildren int) handle.NetEntity {
	a := tcp.NewAcceptor(addr, reuseAddr, e.exec, e.arena, maxChildren)
	if e.log != nil {
		a.SetLogger(e.log)
	}
	return e.register(handle.Entity(a), handle.KindAcceptor)
}

// MakeTcpConnectorStatic constructs and registers a TcpConnector dialing a
// fixed, already-ordered endpoint list.
func (e *Engine) MakeTcpConnectorStatic(network string, endpoints []string, policy tcp.ReconnectPolicy) handle.NetEntity {
	c := tcp.NewConnectorStatic(network, endpoints, policy, e.exec, e.arena)
	if e.log != nil {
		c.SetLogger(e.log)
	}
	if e.mtr != nil {
		c.SetMetrics(e.mtr)
	}
	return e.register(handle.Entity(c), handle.KindConnector)
}

// MakeTcpConnectorLookup constructs and registers a TcpConnector that
// re-resolves (host, service) via DNS on every reconnect attempt.
func (e *Engine) MakeTcpConnectorLookup(network, host, service string, policy tcp.ReconnectPolicy) handle.NetEntity {
	c := tcp.NewConnectorLookup(network, host, service, policy, e.exec, e.arena)
	if e.log != nil {
		c.SetLogger(e.log)
	}
	if e.mtr != nil {
		c.SetMetrics(e.mtr)
	}
	return e.register(handle.Entity(c), handle.KindConnector)
}

// MakeUdpEntity constructs and registers a UdpEntity bound to addr. The
// returned NetEntity and the IoInterface obtained through its
// VisitIoOutput both refer to the same underlying object, since a
// UdpEntity combines entity and I/O handler roles in one, per spec.md §4.5.
func (e *Engine) MakeUdpEntity(addr string, reuseAddr bool) handle.NetEntity {
	id, gen := e.arena.Reserve()
	u := udp.New(id, gen, addr, reuseAddr, e.exec, e.arena)
	if e.log != nil {
		u.SetLogger(e.log)
	}
	e.arena.Fill(id, gen, handle.Entity(u))

	e.mu.Lock()
	e.entities[id] = gen
	e.mu.Unlock()

	return handle.NewNetEntity(e.arena, id, gen, handle.KindUdp)
}

// Remove stops ent and forgets it.
func (e *Engine) Remove(ent handle.NetEntity) error {
	err := ent.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.entities {
		if handle.NewNetEntity(e.arena, id, e.entities[id], ent.Kind()).Equal(ent) {
			delete(e.entities, id)
			break
		}
	}

	return err
}

// RemoveAll stops and forgets every entity this Engine has constructed.
func (e *Engine) RemoveAll() {
	e.mu.Lock()
	ids := make(map[uint64]uint64, len(e.entities))
	for id, gen := range e.entities {
		ids[id] = gen
	}
	e.entities = make(map[uint64]uint64)
	e.mu.Unlock()

	for id, gen := range ids {
		ent := handle.NewNetEntity(e.arena, id, gen, handle.KindAcceptor)
		_ = ent.Stop()
	}
}

// StopGrace stops the executor, allowing up to d for the final batch of
// posted jobs (teardown notifications from entities just stopped) to
// drain before the context is cancelled.
func (e *Engine) StopGrace(d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return e.Stop(ctx)
}

// StartMetricsSampling starts a periodic ticker.Runner that polls every
// registered entity's live I/O output queue depth/bytes into the installed
// Collector (see SetMetrics), under handler names of the form
// "entity-<id>". It is a no-op tick if no Collector has been installed.
// Stop the returned Runner to end sampling independently of the executor.
func (e *Engine) StartMetricsSampling(ctx context.Context, interval time.Duration) ticker.Runner {
	r := ticker.New(interval, func(_ context.Context, _ *time.Ticker) error {
		if e.mtr == nil {
			return nil
		}

		e.mu.Lock()
		ids := make(map[uint64]uint64, len(e.entities))
		for id, gen := range e.entities {
			ids[id] = gen
		}
		e.mu.Unlock()

		for id, gen := range ids {
			ent := handle.NewNetEntity(e.arena, id, gen, handle.KindAcceptor)
			name := fmt.Sprintf("entity-%d", id)
			_, _ = ent.VisitIoOutput(func(out handle.IoOutput) bool {
				if size, bytes, err := out.GetOutputQueueStats(); err == nil {
					e.mtr.ObserveQueue(name, size, bytes)
				}
				return true
			})
		}

		return nil
	})

	_ = r.Start(ctx)
	return r
}
