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

package handle

import (
	"net"

	liberr "github.com/nabbar/netip/errors"
	"github.com/nabbar/netip/netip/buffer"
	"github.com/nabbar/netip/netip/framing"
)

// IoHandler is the interface an arena-registered TCP or UDP I/O handler
// must satisfy to be reachable through an IoInterface/IoOutput handle. It
// covers only what TCP's IoHandler and UDP's Entity share; the "every
// StartIo variant" operations spec.md §4.9 describes differ by transport
// (framing-based for TCP, size/endpoint-based for UDP) and so are exposed
// as separate IoInterface methods below, each resolving through an
// optional, narrower interface (tcpStarter/udpStarter) the concrete
// handler satisfies.
type IoHandler interface {
	IsIoStarted() bool
	StopIo() error
	Send(buf buffer.Buffer) error
	QueueStats() (size int64, bytes int64)
	VisitSocket(fn func(sock any) error) error
}

// tcpStarter is satisfied by tcp.IoHandler.
type tcpStarter interface {
	StartIo(mode framing.Mode, msg framing.MessageFunc) error
}

// udpStarter is satisfied by udp.Entity.
type udpStarter interface {
	StartIoUnicast(maxSize int, msg framing.MessageFunc) error
	StartIoWithDefault(maxSize int, defaultRemote *net.UDPAddr, msg framing.MessageFunc) error
	StartIoSendOnly() error
	StartIoSendOnlyWithDefault(defaultRemote *net.UDPAddr) error
}

// StateChangeFunc is invoked whenever an I/O handler is created
// (starting=true) or destroyed (starting=false) under an entity, carrying
// the handle to that I/O handler and the number of currently live
// children (0 or 1 for connector/UDP, 0..N for an acceptor). Defined here,
// rather than in package entity, so the callback can carry a real
// IoInterface as spec.md §2 requires ("the callback typically calls
// start_io on the handle") without entity and handle importing each other.
type StateChangeFunc func(io IoInterface, count int, starting bool)

// ErrorFunc is invoked whenever an entity (or one of its children)
// observes an error, carrying the IoInterface of the affected child when
// there is one (the zero IoInterface otherwise).
type ErrorFunc func(io IoInterface, err error)

// Entity is the interface an arena-registered TcpAcceptor, TcpConnector, or
// UdpEntity must satisfy to be reachable through a NetEntity handle.
type Entity interface {
	IsStarted() bool
	Start(onStateChange StateChangeFunc, onError ErrorFunc) error
	Stop() error
	VisitSocket(fn func(sock any) error) error
	VisitIoOutput(fn func(IoOutput) bool) int
}

// Kind tags which concrete entity a NetEntity refers to.
type Kind int

const (
	KindAcceptor Kind = iota
	KindConnector
	KindUdp
)

// ref is the common weak-reference payload: every handle is cheap to copy
// and totally ordered by (valid, id, gen).
type ref struct {
	arena *Registry
	id    uint64
	gen   uint64
}

func (r ref) isValid() bool {
	return r.arena != nil && r.arena.IsValid(r.id, r.gen)
}

// less implements the total order spec.md §4.9 requires: invalid handles
// order before any valid handle; among valid handles, order by id then
// generation.
func (r ref) less(o ref) bool {
	rv, ov := r.isValid(), o.isValid()
	if rv != ov {
		return !rv && ov
	}
	if !rv {
		return false // both invalid: equal, neither less.
	}
	if r.id != o.id {
		return r.id < o.id
	}
	return r.gen < o.gen
}

func (r ref) equal(o ref) bool {
	rv, ov := r.isValid(), o.isValid()
	if !rv && !ov {
		return true
	}
	return rv == ov && r.id == o.id && r.gen == o.gen
}

// IoInterface is a weak reference to an I/O handler.
type IoInterface struct {
	ref
}

// NewIoInterface wraps (arena, id, gen) bound to an IoHandler registration.
func NewIoInterface(arena *Registry, id, gen uint64) IoInterface {
	return IoInterface{ref{arena: arena, id: id, gen: gen}}
}

func (h IoInterface) resolve() (IoHandler, error) {
	o, ok := h.arena.Get(h.id, h.gen)
	if !ok {
		return nil, liberr.CodeWeakRefExpired.Error()
	}
	return o.(IoHandler), nil
}

// IsValid reports whether the referent still exists.
func (h IoInterface) IsValid() bool { return h.isValid() }

// Equal reports handle equality per spec.md §4.9's ordering rules.
func (h IoInterface) Equal(o IoInterface) bool { return h.ref.equal(o.ref) }

// Less implements the total order.
func (h IoInterface) Less(o IoInterface) bool { return h.ref.less(o.ref) }

// IsIoStarted reports whether the handler has been started.
func (h IoInterface) IsIoStarted() (bool, error) {
	o, err := h.resolve()
	if err != nil {
		return false, err
	}
	return o.IsIoStarted(), nil
}

// VisitSocket applies fn to the handler's underlying socket.
func (h IoInterface) VisitSocket(fn func(sock any) error) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	return o.VisitSocket(fn)
}

// StartIo selects framing and installs the message handler on a TCP
// IoHandler. Returns CodeWeakRefExpired if the handler no longer exists,
// or CodeIOError if this handle refers to a UDP entity instead.
func (h IoInterface) StartIo(mode framing.Mode, msg framing.MessageFunc) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	s, ok := o.(tcpStarter)
	if !ok {
		return liberr.CodeIOError.Error()
	}
	return s.StartIo(mode, msg)
}

// StartIoUdpUnicast begins a UDP receive loop with no default remote
// endpoint.
func (h IoInterface) StartIoUdpUnicast(maxSize int, msg framing.MessageFunc) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	s, ok := o.(udpStarter)
	if !ok {
		return liberr.CodeIOError.Error()
	}
	return s.StartIoUnicast(maxSize, msg)
}

// StartIoUdpWithDefault begins a UDP receive loop and records
// defaultRemote so Send (without an explicit endpoint) has somewhere to
// go.
func (h IoInterface) StartIoUdpWithDefault(maxSize int, defaultRemote *net.UDPAddr, msg framing.MessageFunc) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	s, ok := o.(udpStarter)
	if !ok {
		return liberr.CodeIOError.Error()
	}
	return s.StartIoWithDefault(maxSize, defaultRemote, msg)
}

// StartIoUdpSendOnly marks a UDP entity started for writes only.
func (h IoInterface) StartIoUdpSendOnly() error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	s, ok := o.(udpStarter)
	if !ok {
		return liberr.CodeIOError.Error()
	}
	return s.StartIoSendOnly()
}

// StartIoUdpSendOnlyWithDefault is StartIoUdpSendOnly plus a default
// remote endpoint.
func (h IoInterface) StartIoUdpSendOnlyWithDefault(defaultRemote *net.UDPAddr) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	s, ok := o.(udpStarter)
	if !ok {
		return liberr.CodeIOError.Error()
	}
	return s.StartIoSendOnlyWithDefault(defaultRemote)
}

// StopIo requests orderly shutdown.
func (h IoInterface) StopIo() error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	return o.StopIo()
}

// MakeIoOutput returns an IoOutput valid as long as the handler lives.
func (h IoInterface) MakeIoOutput() IoOutput {
	return IoOutput{h.ref}
}

// IoOutput is a weak reference to an I/O handler exposing only the
// thread-safe send path and queue statistics.
type IoOutput struct {
	ref
}

func (h IoOutput) resolve() (IoHandler, error) {
	o, ok := h.arena.Get(h.id, h.gen)
	if !ok {
		return nil, liberr.CodeWeakRefExpired.Error()
	}
	return o.(IoHandler), nil
}

// IsValid reports whether the referent still exists.
func (h IoOutput) IsValid() bool { return h.isValid() }

// Send enqueues buf for transmission; thread-safe.
func (h IoOutput) Send(buf buffer.Buffer) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	return o.Send(buf)
}

// GetOutputQueueStats returns the handler's current queue depth and bytes.
func (h IoOutput) GetOutputQueueStats() (size int64, bytes int64, err error) {
	o, rerr := h.resolve()
	if rerr != nil {
		return 0, 0, rerr
	}
	size, bytes = o.QueueStats()
	return size, bytes, nil
}

// NetEntity is a type-erased weak reference to a TcpAcceptor, TcpConnector,
// or UdpEntity.
type NetEntity struct {
	ref
	kind Kind
}

// NewNetEntity wraps (arena, id, gen) bound to an Entity registration.
func NewNetEntity(arena *Registry, id, gen uint64, kind Kind) NetEntity {
	return NetEntity{ref{arena: arena, id: id, gen: gen}, kind}
}

func (h NetEntity) resolve() (Entity, error) {
	o, ok := h.arena.Get(h.id, h.gen)
	if !ok {
		return nil, liberr.CodeWeakRefExpired.Error()
	}
	return o.(Entity), nil
}

// Kind reports which concrete entity this handle refers to.
func (h NetEntity) Kind() Kind { return h.kind }

// IsValid reports whether the referent still exists.
func (h NetEntity) IsValid() bool { return h.isValid() }

// Equal reports handle equality per spec.md §4.9's ordering rules.
func (h NetEntity) Equal(o NetEntity) bool { return h.ref.equal(o.ref) }

// Less implements the total order.
func (h NetEntity) Less(o NetEntity) bool { return h.ref.less(o.ref) }

// IsStarted reports whether the entity has been started.
func (h NetEntity) IsStarted() (bool, error) {
	o, err := h.resolve()
	if err != nil {
		return false, err
	}
	return o.IsStarted(), nil
}

// Start begins the entity's async work.
func (h NetEntity) Start(onStateChange StateChangeFunc, onError ErrorFunc) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	return o.Start(onStateChange, onError)
}

// Stop tears the entity down.
func (h NetEntity) Stop() error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	return o.Stop()
}

// VisitSocket applies fn to the entity's own listening/bound socket.
func (h NetEntity) VisitSocket(fn func(sock any) error) error {
	o, err := h.resolve()
	if err != nil {
		return err
	}
	return o.VisitSocket(fn)
}

// VisitIoOutput applies fn to every currently active child I/O output and
// returns the count visited.
func (h NetEntity) VisitIoOutput(fn func(IoOutput) bool) (int, error) {
	o, err := h.resolve()
	if err != nil {
		return 0, err
	}
	return o.VisitIoOutput(fn), nil
}
