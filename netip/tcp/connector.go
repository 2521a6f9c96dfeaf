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
	"time"

	liberr "github.com/nabbar/netip/errors"
	"github.com/nabbar/netip/logger"
	"github.com/nabbar/netip/netip/entity"
	"github.com/nabbar/netip/netip/executor"
	"github.com/nabbar/netip/netip/handle"
	"github.com/nabbar/netip/netip/resolver"
	"github.com/nabbar/netip/socket"
)

// MetricsSink receives one notification per reconnect attempt a Connector
// makes; *metrics.Collector satisfies it structurally, so this package
// need not import prometheus itself.
type MetricsSink interface {
	IncReconnectAttempt(target string)
}

// Connector implements the Idle/Resolving/Connecting/Connected/Waiting/
// Stopped state machine of spec.md §4.7. It owns at most one IoHandler at
// a time; reconnection is governed by a ReconnectPolicy.
type Connector struct {
	common   *entity.Common
	exec     *executor.Executor
	arena    *handle.Registry
	resolver resolver.Resolver
	network  string
	host     string
	service  string
	label    string
	policy   ReconnectPolicy
	dialTO   time.Duration
	metrics  MetricsSink

	mu      sync.Mutex
	state   socket.ConnState
	attempt int
	cancel  context.CancelFunc
	handler *IoHandler
	genH    uint64
	idH     uint64
}

// NewConnectorStatic builds a Connector that dials a fixed, already
// ordered endpoint list (no per-attempt re-resolution).
func NewConnectorStatic(network string, endpoints []string, policy ReconnectPolicy, exec *executor.Executor, arena *handle.Registry) *Connector {
	label := network
	if len(endpoints) > 0 {
		label = endpoints[0]
	}
	return newConnector(network, resolver.Static(endpoints), "", "", label, policy, exec, arena)
}

// NewConnectorLookup builds a Connector that resolves host via DNS and
// pairs every address with service on each reconnect attempt, so that DNS
// changes are observed — matching spec.md §4.7's lazy-resolution rule.
func NewConnectorLookup(network, host, service string, policy ReconnectPolicy, exec *executor.Executor, arena *handle.Registry) *Connector {
	return newConnector(network, resolver.New(), host, service, net.JoinHostPort(host, service), policy, exec, arena)
}

func newConnector(network string, r resolver.Resolver, host, service, label string, policy ReconnectPolicy, exec *executor.Executor, arena *handle.Registry) *Connector {
	return &Connector{
		common:   &entity.Common{},
		exec:     exec,
		arena:    arena,
		resolver: r,
		network:  network,
		host:     host,
		service:  service,
		label:    label,
		policy:   policy,
		dialTO:   10 * time.Second,
		state:    socket.StateIdle,
	}
}

// IsStarted reports whether Start has been called and Stop has not.
func (c *Connector) IsStarted() bool { return c.common.IsStarted() }

// SetLogger installs the optional logger used for Debug transition tracing
// and Error propagation logging.
func (c *Connector) SetLogger(l logger.Logger) { c.common.SetLogger(l) }

// SetMetrics installs the optional sink notified once per reconnect
// attempt.
func (c *Connector) SetMetrics(m MetricsSink) { c.metrics = m }

// Start launches the connect/reconnect loop on its own goroutine.
func (c *Connector) Start(onStateChange handle.StateChangeFunc, onError handle.ErrorFunc) error {
	ok, err := c.common.Begin(onStateChange, onError)
	if !ok {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.state = socket.StateResolving
	c.mu.Unlock()

	go c.run(ctx)

	return nil
}

// Stop cancels any outstanding resolve/connect/timer/I/O and transitions
// to Stopped, per spec.md §4.7's "stop() at any state" rule.
func (c *Connector) Stop() error {
	ok, err := c.common.End()
	if !ok {
		return err
	}

	c.mu.Lock()
	cancel := c.cancel
	h := c.handler
	c.state = socket.StateStopping
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if h != nil {
		_ = h.StopIo()
	}

	c.mu.Lock()
	c.state = socket.StateStopped
	c.mu.Unlock()

	return nil
}

// VisitSocket applies fn to the currently connected socket, if any.
func (c *Connector) VisitSocket(fn func(sock any) error) error {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()

	if h == nil {
		return liberr.CodeAlreadyStopped.Error()
	}
	return h.VisitSocket(fn)
}

// VisitIoOutput applies fn to the current handler (0 or 1 call) and
// returns the count visited.
func (c *Connector) VisitIoOutput(fn func(handle.IoOutput) bool) int {
	c.mu.Lock()
	h, id, gen := c.handler, c.idH, c.genH
	c.mu.Unlock()

	if h == nil {
		return 0
	}

	out := handle.NewIoInterface(c.arena, id, gen).MakeIoOutput()
	fn(out)
	return 1
}

// run drives the state machine until ctx is cancelled by Stop.
func (c *Connector) run(ctx context.Context) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(socket.StateResolving)
		eps, rerr := c.resolver.Resolve(ctx, c.network, c.host, c.service)
		if rerr != nil || len(eps) == 0 {
			c.common.LogError("tcp connector: resolve failed", rerr)
			c.common.Error(handle.IoInterface{}, c.attemptError(rerr))
			if !c.waitOrStop(ctx, attempt, rerr) {
				return
			}
			attempt++
			continue
		}

		c.setState(socket.StateConnecting)
		if c.metrics != nil {
			c.metrics.IncReconnectAttempt(c.label)
		}
		conn, derr := c.dialFirst(ctx, eps)
		if derr != nil {
			c.common.LogError("tcp connector: connect failed", derr)
			c.common.Error(handle.IoInterface{}, c.attemptError(derr))
			if !c.waitOrStop(ctx, attempt, derr) {
				return
			}
			attempt++
			continue
		}

		c.common.LogDebug("tcp connector: connected", conn.RemoteAddr())
		attempt = 0
		done := c.onConnected(conn)
		select {
		case <-ctx.Done():
			return
		case <-done:
			// handler tore itself down; loop around to reconnect.
		}
	}
}

func (c *Connector) dialFirst(ctx context.Context, eps []string) (net.Conn, error) {
	var lastErr error
	d := net.Dialer{Timeout: c.dialTO}

	for _, ep := range eps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		conn, err := d.DialContext(ctx, c.network, ep)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = liberr.CodeIOError.Error()
	}
	return nil, lastErr
}

// onConnected registers the new connection's IoHandler and fires the
// state-change callback. The returned channel closes once the handler has
// torn itself down, so run() knows when to re-enter Resolving.
func (c *Connector) onConnected(conn net.Conn) <-chan struct{} {
	done := make(chan struct{})

	id, gen := c.arena.Reserve()
	h := New(id, conn, c.exec, func(hid uint64, err error) {
		c.exec.Post(func() {
			c.mu.Lock()
			c.handler = nil
			c.state = socket.StateWaiting
			c.mu.Unlock()

			io := handle.NewIoInterface(c.arena, hid, gen)
			c.arena.Remove(hid)
			c.common.StateChange(io, 0, false)
			if err != nil {
				c.common.Error(io, err)
			}
			close(done)
		})
	})
	c.arena.Fill(id, gen, handle.IoHandler(h))
	io := handle.NewIoInterface(c.arena, id, gen)

	c.mu.Lock()
	c.handler = h
	c.idH, c.genH = id, gen
	c.state = socket.StateConnected
	c.mu.Unlock()

	c.exec.Post(func() {
		c.common.StateChange(io, 1, true)
	})

	return done
}

// attemptError wraps a failed resolve/connect attempt's cause (which may be
// nil, e.g. an empty resolution) into the CodeIOError the per-attempt error
// callback reports, one call per failed attempt regardless of whether the
// reconnect policy goes on to retry or stop.
func (c *Connector) attemptError(cause error) error {
	if cause == nil {
		return liberr.CodeIOError.Error()
	}
	return liberr.CodeIOError.Error(cause)
}

// waitOrStop schedules the next reconnect attempt per policy, blocking
// until the timer fires or ctx is cancelled. It returns false once the
// policy is exhausted (or Stop fires), at which point the connector
// transitions to Stopped and delivers CodeConnectorStopped.
func (c *Connector) waitOrStop(ctx context.Context, attempt int, cause error) bool {
	d, ok := c.policy.next(attempt)
	if !ok {
		c.setState(socket.StateStopped)
		c.exec.Post(func() {
			err := liberr.CodeConnectorStopped.Error()
			if cause != nil {
				err = liberr.CodeConnectorStopped.Error(cause)
			}
			c.common.Error(handle.IoInterface{}, err)
		})
		return false
	}

	c.setState(socket.StateWaiting)

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Connector) setState(s socket.ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
