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

package handle_test

import (
	"net"

	"github.com/nabbar/netip/netip/buffer"
	"github.com/nabbar/netip/netip/framing"
	"github.com/nabbar/netip/netip/handle"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeTCP satisfies handle.IoHandler plus the unexported tcpStarter shape
// (a StartIo(framing.Mode, framing.MessageFunc) method) structurally.
type fakeTCP struct {
	started  bool
	gotMode  framing.Mode
	stopped  bool
	sent     []buffer.Buffer
}

func (f *fakeTCP) IsIoStarted() bool                          { return f.started }
func (f *fakeTCP) StopIo() error                               { f.stopped = true; return nil }
func (f *fakeTCP) Send(buf buffer.Buffer) error                { f.sent = append(f.sent, buf); return nil }
func (f *fakeTCP) QueueStats() (int64, int64)                  { return int64(len(f.sent)), 0 }
func (f *fakeTCP) VisitSocket(fn func(sock any) error) error   { return fn("tcp-socket") }
func (f *fakeTCP) StartIo(mode framing.Mode, _ framing.MessageFunc) error {
	f.started = true
	f.gotMode = mode
	return nil
}

// fakeUDP satisfies handle.IoHandler plus the unexported udpStarter shape.
type fakeUDP struct {
	started  bool
	sendOnly bool
	def      *net.UDPAddr
}

func (f *fakeUDP) IsIoStarted() bool                        { return f.started }
func (f *fakeUDP) StopIo() error                             { return nil }
func (f *fakeUDP) Send(buffer.Buffer) error                  { return nil }
func (f *fakeUDP) QueueStats() (int64, int64)                { return 0, 0 }
func (f *fakeUDP) VisitSocket(fn func(sock any) error) error { return fn("udp-socket") }
func (f *fakeUDP) StartIoUnicast(int, framing.MessageFunc) error {
	f.started = true
	return nil
}
func (f *fakeUDP) StartIoWithDefault(_ int, def *net.UDPAddr, _ framing.MessageFunc) error {
	f.started = true
	f.def = def
	return nil
}
func (f *fakeUDP) StartIoSendOnly() error {
	f.started, f.sendOnly = true, true
	return nil
}
func (f *fakeUDP) StartIoSendOnlyWithDefault(def *net.UDPAddr) error {
	f.started, f.sendOnly, f.def = true, true, def
	return nil
}

var _ = Describe("IoInterface dispatch", func() {
	var arena *handle.Registry

	BeforeEach(func() {
		arena = handle.NewRegistry()
	})

	Describe("a TCP handler", func() {
		It("accepts StartIo and rejects UDP-shaped calls", func() {
			h := &fakeTCP{}
			id, gen := arena.Insert(handle.IoHandler(h))
			io := handle.NewIoInterface(arena, id, gen)

			Expect(io.StartIo(framing.Delimiter('\n'), nil)).To(Succeed())
			Expect(h.started).To(BeTrue())
			Expect(h.gotMode.Kind).To(Equal(framing.KindDelimiter))

			Expect(io.StartIoUdpUnicast(1024, nil)).To(HaveOccurred())
			Expect(io.StartIoUdpSendOnly()).To(HaveOccurred())
		})

		It("dispatches Send/VisitSocket/StopIo through the base interface", func() {
			h := &fakeTCP{}
			id, gen := arena.Insert(handle.IoHandler(h))
			io := handle.NewIoInterface(arena, id, gen)

			Expect(io.MakeIoOutput().Send(buffer.New([]byte("x")))).To(Succeed())
			Expect(h.sent).To(HaveLen(1))

			var seen any
			Expect(io.VisitSocket(func(s any) error { seen = s; return nil })).To(Succeed())
			Expect(seen).To(Equal("tcp-socket"))

			Expect(io.StopIo()).To(Succeed())
			Expect(h.stopped).To(BeTrue())
		})
	})

	Describe("a UDP entity", func() {
		It("accepts StartIoUdpUnicast and rejects the TCP StartIo", func() {
			h := &fakeUDP{}
			id, gen := arena.Insert(handle.IoHandler(h))
			io := handle.NewIoInterface(arena, id, gen)

			Expect(io.StartIo(framing.Fixed(4), nil)).To(HaveOccurred())

			Expect(io.StartIoUdpUnicast(2048, nil)).To(Succeed())
			Expect(h.started).To(BeTrue())
		})

		It("records the default remote endpoint", func() {
			h := &fakeUDP{}
			id, gen := arena.Insert(handle.IoHandler(h))
			io := handle.NewIoInterface(arena, id, gen)

			addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}
			Expect(io.StartIoUdpSendOnlyWithDefault(addr)).To(Succeed())
			Expect(h.sendOnly).To(BeTrue())
			Expect(h.def).To(Equal(addr))
		})
	})

	Describe("a stale handle", func() {
		It("returns CodeWeakRefExpired once removed", func() {
			h := &fakeTCP{}
			id, gen := arena.Insert(handle.IoHandler(h))
			io := handle.NewIoInterface(arena, id, gen)
			arena.Remove(id)

			Expect(io.IsValid()).To(BeFalse())
			_, err := io.IsIoStarted()
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("IoOutput", func() {
	It("reports queue stats through the weak reference", func() {
		arena := handle.NewRegistry()
		h := &fakeTCP{}
		id, gen := arena.Insert(handle.IoHandler(h))
		out := handle.NewIoInterface(arena, id, gen).MakeIoOutput()

		Expect(out.Send(buffer.New([]byte("a")))).To(Succeed())
		Expect(out.Send(buffer.New([]byte("b")))).To(Succeed())

		size, _, err := out.GetOutputQueueStats()
		Expect(err).ToNot(HaveOccurred())
		Expect(size).To(Equal(int64(2)))
	})
})

// fakeEntity satisfies handle.Entity for NetEntity-level tests.
type fakeEntity struct {
	started bool
}

func (f *fakeEntity) IsStarted() bool { return f.started }
func (f *fakeEntity) Start(onStateChange handle.StateChangeFunc, _ handle.ErrorFunc) error {
	f.started = true
	if onStateChange != nil {
		onStateChange(handle.IoInterface{}, 1, true)
	}
	return nil
}
func (f *fakeEntity) Stop() error                             { f.started = false; return nil }
func (f *fakeEntity) VisitSocket(fn func(sock any) error) error { return fn("entity-socket") }
func (f *fakeEntity) VisitIoOutput(fn func(handle.IoOutput) bool) int {
	fn(handle.IoOutput{})
	return 1
}

var _ = Describe("NetEntity", func() {
	It("proxies Start/Stop/IsStarted to the registered entity", func() {
		arena := handle.NewRegistry()
		f := &fakeEntity{}
		id, gen := arena.Insert(handle.Entity(f))
		ne := handle.NewNetEntity(arena, id, gen, handle.KindAcceptor)

		var gotCount int
		Expect(ne.Start(func(_ handle.IoInterface, count int, _ bool) { gotCount = count }, nil)).To(Succeed())
		Expect(gotCount).To(Equal(1))

		started, err := ne.IsStarted()
		Expect(err).ToNot(HaveOccurred())
		Expect(started).To(BeTrue())

		Expect(ne.Stop()).To(Succeed())
		Expect(ne.Kind()).To(Equal(handle.KindAcceptor))
	})

	It("visits every live I/O output", func() {
		arena := handle.NewRegistry()
		f := &fakeEntity{}
		id, gen := arena.Insert(handle.Entity(f))
		ne := handle.NewNetEntity(arena, id, gen, handle.KindUdp)

		count, err := ne.VisitIoOutput(func(handle.IoOutput) bool { return true })
		Expect(err).ToNot(HaveOccurred())
		Expect(count).To(Equal(1))
	})
})
