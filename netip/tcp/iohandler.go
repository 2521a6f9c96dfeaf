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

// Package tcp implements the TCP-specific components: the per-connection
// I/O handler, the listening acceptor, and the retrying connector.
package tcp

import (
	"bufio"
	"io"
	"net"

	liberr "github.com/nabbar/netip/errors"
	"github.com/nabbar/netip/netip/buffer"
	"github.com/nabbar/netip/netip/executor"
	"github.com/nabbar/netip/netip/framing"
	"github.com/nabbar/netip/netip/iohandler"
	"github.com/nabbar/netip/netip/queue"
)

// IoHandler wraps one TCP connection: the shared iohandler.Common state
// plus the framing-mode read loop and write pipeline. At most one read and
// one write are outstanding at a time, per spec.md §3.
//
// Reads happen on a dedicated per-handler goroutine (blocking I/O is the
// idiomatic Go mapping of an async read — the goroutine IS the suspension
// point); every application-visible effect of a completed read (the message
// handler call, deciding the next read) is posted onto the shared executor
// so it is always serialized against writes and other handlers' work, per
// spec.md §5.
type IoHandler struct {
	common *iohandler.Common
	conn   net.Conn
	exec   *executor.Executor

	mode framing.Mode
	msg  framing.MessageFunc
}

// New wraps conn as an IoHandler identified by id, posting teardown
// notifications to notify and running completions on exec.
func New(id uint64, conn net.Conn, exec *executor.Executor, notify iohandler.Notifier) *IoHandler {
	return &IoHandler{
		common: iohandler.New(id, notify),
		conn:   conn,
		exec:   exec,
	}
}

// ID returns the identifier this handler was registered under.
func (h *IoHandler) ID() uint64 { return h.common.ID() }

// IsIoStarted reports whether StartIo has been called successfully.
func (h *IoHandler) IsIoStarted() bool { return h.common.IsStarted() }

// QueueStats returns the current output queue depth and bytes.
func (h *IoHandler) QueueStats() (int64, int64) { return h.common.Queue.Stats() }

// VisitSocket applies fn to the underlying net.Conn.
func (h *IoHandler) VisitSocket(fn func(sock any) error) error {
	return fn(h.conn)
}

// StartIo selects framing and begins the read loop (unless mode is
// send-only). Returns CodeAlreadyStarted if already started.
func (h *IoHandler) StartIo(mode framing.Mode, msg framing.MessageFunc) error {
	if !h.common.StartIoSetup(h.conn.RemoteAddr()) {
		return liberr.CodeAlreadyStarted.Error()
	}

	h.mode = mode
	h.msg = msg

	if mode.Kind != framing.KindSendOnly {
		go h.readLoop()
	}

	return nil
}

// StopIo requests orderly shutdown: it cancels the read by closing the
// socket and notifies the parent entity. Per spec.md §9's resolved open
// question, any write in flight completes; the remaining queue is
// discarded by virtue of the handler no longer accepting new writes.
func (h *IoHandler) StopIo() error {
	if !h.common.IsStarted() {
		return liberr.CodeAlreadyStopped.Error()
	}

	h.common.Stop()
	_ = h.conn.Close()
	h.common.NotifyStopped()

	return nil
}

// Send enqueues buf for transmission. Thread-safe: the actual queue/state
// mutation runs on the executor.
func (h *IoHandler) Send(buf buffer.Buffer) error {
	if !h.common.IsStarted() {
		return liberr.CodeIOHandlerStopped.Error()
	}

	h.exec.Post(func() {
		e := queue.Entry{Buf: buf}
		if h.common.StartWriteSetup(e) {
			h.doWrite(e)
		}
	})

	return nil
}

func (h *IoHandler) doWrite(e queue.Entry) {
	go func() {
		_, err := h.conn.Write(e.Buf.Bytes())

		h.exec.Post(func() {
			if err != nil {
				h.teardown(liberr.CodeIOError.Error(err))
				return
			}
			if next, ok := h.common.NextWrite(); ok {
				h.doWrite(next)
			}
		})
	}()
}

func (h *IoHandler) readLoop() {
	switch h.mode.Kind {
	case framing.KindFixed:
		h.readFixedLoop()
	case framing.KindDelimiter:
		h.readDelimiterLoop()
	case framing.KindHeader:
		h.readHeaderLoop()
	}
}

func (h *IoHandler) readFixedLoop() {
	for {
		buf := make([]byte, h.mode.Size)
		if _, err := io.ReadFull(h.conn, buf); err != nil {
			h.postReadError(err)
			return
		}
		if !h.deliver(buf) {
			return
		}
	}
}

func (h *IoHandler) readDelimiterLoop() {
	br := bufio.NewReader(h.conn)
	for {
		data, err := br.ReadBytes(h.mode.Delimiter)
		if err != nil {
			h.postReadError(err)
			return
		}
		if !h.deliver(data) {
			return
		}
	}
}

func (h *IoHandler) readHeaderLoop() {
	for {
		buf := make([]byte, h.mode.HeaderLen)
		if _, err := io.ReadFull(h.conn, buf); err != nil {
			h.postReadError(err)
			return
		}

		for {
			more, err := h.mode.FrameFunc(buf)
			if err != nil {
				h.postReadError(err)
				return
			}
			if more == 0 {
				break
			}

			extra := make([]byte, more)
			if _, err = io.ReadFull(h.conn, extra); err != nil {
				h.postReadError(err)
				return
			}
			buf = append(buf, extra...)
		}

		if !h.deliver(buf) {
			return
		}
	}
}

// deliver posts the message handler call to the executor and blocks this
// read goroutine for the (serialized, but typically fast) result, so the
// next read is only issued once the application has seen the prior one.
func (h *IoHandler) deliver(msg []byte) bool {
	cp := make([]byte, len(msg))
	copy(cp, msg)

	remote := h.common.RemoteAddr().String()
	result := make(chan bool, 1)

	h.exec.Post(func() {
		result <- h.msg(cp, remote)
	})

	if !<-result {
		h.teardown(liberr.CodeHandlerTerminated.Error())
		return false
	}

	return true
}

func (h *IoHandler) postReadError(err error) {
	if err == io.EOF {
		h.teardown(liberr.CodeIOHandlerStopped.Error())
		return
	}
	h.teardown(liberr.CodeIOError.Error(err))
}

func (h *IoHandler) teardown(err error) {
	if !h.common.IsStarted() {
		return
	}

	h.common.Stop()
	_ = h.conn.Close()
	h.common.NotifyError(err)
}
