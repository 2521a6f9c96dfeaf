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

// Package udp implements UdpEntity: spec.md §4.5 combines the entity and
// I/O handler roles in one object, since a UDP socket has no separate
// accept/connect phase to own a child through.
package udp

import (
	"net"

	liberr "github.com/nabbar/netip/errors"
	"github.com/nabbar/netip/logger"
	"github.com/nabbar/netip/netip/buffer"
	"github.com/nabbar/netip/netip/entity"
	"github.com/nabbar/netip/netip/executor"
	"github.com/nabbar/netip/netip/framing"
	"github.com/nabbar/netip/netip/handle"
	"github.com/nabbar/netip/netip/iohandler"
	"github.com/nabbar/netip/netip/queue"
	"github.com/nabbar/netip/socket"
)

// Entity is a bound UDP socket combining entity and IoHandler semantics:
// Start binds the socket, one of the StartIo* variants selects the
// receive/send shape, and the same Stop/StopIo call tears the whole thing
// down since there is only one object to destroy.
type Entity struct {
	common *entity.Common
	io     *iohandler.Common
	exec   *executor.Executor
	arena  *handle.Registry

	selfID, selfGen uint64

	addr      string
	reuse     bool
	maxSize   int
	sendOnly  bool
	msg       framing.MessageFunc
	conn      *net.UDPConn
}

// New builds an Entity bound to addr, registered in arena under (id, gen)
// (reserved by the caller — ordinarily netip.Engine.MakeUdpEntity — before
// this constructor runs, mirroring tcp.IoHandler's self-registration
// pattern).
func New(id, gen uint64, addr string, reuseAddr bool, exec *executor.Executor, arena *handle.Registry) *Entity {
	e := &Entity{
		common:  &entity.Common{},
		exec:    exec,
		arena:   arena,
		selfID:  id,
		selfGen: gen,
		addr:    addr,
		reuse:   reuseAddr,
	}
	e.io = iohandler.New(id, func(_ uint64, err error) {
		e.teardown(err)
	})
	return e
}

func (e *Entity) self() handle.IoInterface {
	return handle.NewIoInterface(e.arena, e.selfID, e.selfGen)
}

// IsStarted reports whether the socket is bound.
func (e *Entity) IsStarted() bool { return e.common.IsStarted() }

// IsIoStarted reports whether a StartIo* variant has been called.
func (e *Entity) IsIoStarted() bool { return e.io.IsStarted() }

// SetLogger installs the optional logger used for Debug transition tracing
// and Error propagation logging.
func (e *Entity) SetLogger(l logger.Logger) { e.common.SetLogger(l) }

// Start binds the local UDP socket, honoring reuseAddr, and delivers the
// initial state-change callback.
func (e *Entity) Start(onStateChange handle.StateChangeFunc, onError handle.ErrorFunc) error {
	ok, err := e.common.Begin(onStateChange, onError)
	if !ok {
		return err
	}

	udpAddr, rerr := net.ResolveUDPAddr("udp", e.addr)
	if rerr != nil {
		return liberr.CodeIOError.Error(rerr)
	}

	conn, lerr := net.ListenUDP("udp", udpAddr)
	if lerr != nil {
		e.common.LogError("udp entity: listen failed", lerr)
		return liberr.CodeIOError.Error(lerr)
	}
	if e.reuse {
		_ = socket.SetReuseAddress(conn, true)
	}

	e.conn = conn

	io := e.self()
	e.exec.Post(func() {
		e.common.StateChange(io, 1, true)
	})

	return nil
}

// StartIoUnicast begins a receive loop with no default remote endpoint:
// every Send must carry its own destination via SendTo.
func (e *Entity) StartIoUnicast(maxSize int, msg framing.MessageFunc) error {
	return e.startIo(maxSize, nil, msg, false)
}

// StartIoWithDefault begins a receive loop and records defaultRemote so
// Send (without an explicit endpoint) has somewhere to go.
func (e *Entity) StartIoWithDefault(maxSize int, defaultRemote *net.UDPAddr, msg framing.MessageFunc) error {
	return e.startIo(maxSize, defaultRemote, msg, false)
}

// StartIoSendOnly marks the entity started for writes only — no receive
// loop runs, and every Send must use SendTo.
func (e *Entity) StartIoSendOnly() error {
	return e.startIo(0, nil, nil, true)
}

// StartIoSendOnlyWithDefault is StartIoSendOnly plus a default remote
// endpoint, enabling the bare Send(buffer) form.
func (e *Entity) StartIoSendOnlyWithDefault(defaultRemote *net.UDPAddr) error {
	return e.startIo(0, defaultRemote, nil, true)
}

func (e *Entity) startIo(maxSize int, defaultRemote net.Addr, msg framing.MessageFunc, sendOnly bool) error {
	if !e.io.StartIoSetup(defaultRemote) {
		return liberr.CodeAlreadyStarted.Error()
	}

	e.maxSize = maxSize
	e.msg = msg
	e.sendOnly = sendOnly

	if !sendOnly {
		go e.recvLoop()
	}

	return nil
}

// Stop closes the socket and delivers the terminal state-change/error
// callbacks. Idempotent: a concurrent recvLoop teardown or an explicit
// Stop call, whichever runs first, wins.
func (e *Entity) Stop() error {
	ok, err := e.common.End()
	if !ok {
		return err
	}

	e.io.Stop()
	if e.conn != nil {
		_ = e.conn.Close()
	}

	io := e.self()
	e.exec.Post(func() {
		e.common.StateChange(io, 0, false)
		e.common.Error(io, liberr.CodeIOHandlerStopped.Error())
	})

	return nil
}

// StopIo is Stop: a UdpEntity has no separate io-level lifetime to tear
// down independently of the entity itself.
func (e *Entity) StopIo() error { return e.Stop() }

// teardown is the recvLoop/write-error path into the same shutdown Stop
// performs; common.End()'s compare-and-swap makes it safe to race with an
// explicit Stop call.
func (e *Entity) teardown(err error) {
	ok, _ := e.common.End()
	if !ok {
		return
	}

	e.io.Stop()
	if e.conn != nil {
		_ = e.conn.Close()
	}

	io := e.self()
	e.exec.Post(func() {
		e.common.StateChange(io, 0, false)
		if err != nil {
			e.common.Error(io, err)
		}
	})
}

// Send enqueues buf for delivery to the default remote endpoint recorded
// by StartIoWithDefault/StartIoSendOnlyWithDefault.
func (e *Entity) Send(buf buffer.Buffer) error {
	return e.SendTo(buf, nil)
}

// SendTo enqueues buf for delivery to addr (or the default remote if addr
// is nil). Thread-safe: posts to the executor.
func (e *Entity) SendTo(buf buffer.Buffer, addr net.Addr) error {
	if !e.io.IsStarted() {
		return liberr.CodeIOHandlerStopped.Error()
	}

	e.exec.Post(func() {
		ep := addr
		if ep == nil {
			ep = e.io.RemoteAddr()
		}
		entry := queue.Entry{Buf: buf, Endpoint: ep}
		if e.io.StartWriteSetup(entry) {
			e.doWrite(entry)
		}
	})

	return nil
}

func (e *Entity) doWrite(entry queue.Entry) {
	go func() {
		var err error
		if entry.Endpoint != nil {
			_, err = e.conn.WriteTo(entry.Buf.Bytes(), entry.Endpoint)
		} else {
			err = liberr.CodeIOError.Error()
		}

		e.exec.Post(func() {
			if err != nil {
				e.teardown(liberr.CodeIOError.Error(err))
				return
			}
			if next, ok := e.io.NextWrite(); ok {
				e.doWrite(next)
			}
		})
	}()
}

func (e *Entity) recvLoop() {
	for {
		buf := make([]byte, e.maxSize)
		n, raddr, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			e.teardown(liberr.CodeIOError.Error(err))
			return
		}

		cp := make([]byte, n)
		copy(cp, buf[:n])

		if !e.deliver(cp, raddr.String()) {
			return
		}
	}
}

// deliver posts the message-handler invocation onto the executor and
// blocks this receive goroutine for the result, exactly as tcp.IoHandler
// does, so the next datagram is only read once the application has seen
// the prior one.
func (e *Entity) deliver(msg []byte, remote string) bool {
	result := make(chan bool, 1)

	e.exec.Post(func() {
		result <- e.msg(msg, remote)
	})

	if !<-result {
		e.teardown(liberr.CodeHandlerTerminated.Error())
		return false
	}

	return true
}

// QueueStats returns the current output queue depth and bytes.
func (e *Entity) QueueStats() (int64, int64) { return e.io.Queue.Stats() }

// VisitSocket applies fn to the underlying *net.UDPConn.
func (e *Entity) VisitSocket(fn func(sock any) error) error {
	if e.conn == nil {
		return liberr.CodeAlreadyStopped.Error()
	}
	return fn(e.conn)
}

// VisitIoOutput applies fn to this entity's own IoOutput (0 or 1 call,
// since a UdpEntity has exactly one I/O side: itself).
func (e *Entity) VisitIoOutput(fn func(handle.IoOutput) bool) int {
	if !e.io.IsStarted() {
		return 0
	}
	out := e.self().MakeIoOutput()
	fn(out)
	return 1
}
