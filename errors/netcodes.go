/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

// MinPkgNetIP reserves the code range for the networking runtime's own
// sentinel and propagated error kinds, following the same per-package
// range convention as the rest of modules.go.
const MinPkgNetIP = 3500

const (
	// CodeIOError wraps an error surfaced by the socket subsystem (read,
	// write, accept, connect) that is not one of the more specific kinds
	// below.
	CodeIOError CodeError = MinPkgNetIP + iota

	// CodeTimerError wraps an error surfaced by a reconnect timer, other
	// than cancellation (which is swallowed, not surfaced).
	CodeTimerError

	// CodeWeakRefExpired is returned by any handle method, other than
	// equality/validity queries, once the referent has been destroyed.
	CodeWeakRefExpired

	// CodeAlreadyStarted is returned by StartIo/Start when the component
	// has already been started.
	CodeAlreadyStarted

	// CodeAlreadyStopped is returned by StopIo/Stop when the component has
	// already completed its single start-stop cycle.
	CodeAlreadyStopped

	// CodeHandlerTerminated is synthesized when an application message
	// handler returns false from its read callback.
	CodeHandlerTerminated

	// CodeAcceptorStopped is the sentinel delivered once to the error
	// callback as the last event for a stopped TcpAcceptor.
	CodeAcceptorStopped

	// CodeConnectorStopped is the sentinel delivered once to the error
	// callback as the last event for a stopped TcpConnector.
	CodeConnectorStopped

	// CodeIOHandlerStopped is the sentinel delivered once to the error
	// callback as the last event for a torn-down I/O handler.
	CodeIOHandlerStopped
)

func init() {
	RegisterIdFctMessage(MinPkgNetIP, netIPMessage)
}

func netIPMessage(code CodeError) string {
	switch code {
	case CodeIOError:
		return "socket I/O error"
	case CodeTimerError:
		return "reconnect timer error"
	case CodeWeakRefExpired:
		return "handle refers to a destroyed component"
	case CodeAlreadyStarted:
		return "component already started"
	case CodeAlreadyStopped:
		return "component already stopped"
	case CodeHandlerTerminated:
		return "message handler requested shutdown"
	case CodeAcceptorStopped:
		return "acceptor stopped"
	case CodeConnectorStopped:
		return "connector stopped"
	case CodeIOHandlerStopped:
		return "io handler stopped"
	default:
		return UnknownMessage
	}
}
