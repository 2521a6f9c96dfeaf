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

// Package socket models the lifecycle state of one network entity
// (TcpAcceptor, TcpConnector, UdpEntity) and the option surface exposed to
// application code through a handle's VisitSocket. It is deliberately thin:
// the underlying OS socket and executor are spec.md's external
// collaborators ("abstracted as 'socket'... and 'executor'"), so this
// package only adds the small, concrete parts a Go repository needs to
// actually run one: a ConnState enum and an options accessor.
package socket

// ConnState is the lifecycle state of one entity. The state names mirror
// spec.md's prose state machines (§4.4, §4.5, §4.6, §4.7) so logs and
// metrics read the same as the specification.
type ConnState int

const (
	StateIdle ConnState = iota
	StateResolving
	StateConnecting
	StateListening
	StateStarted
	StateConnected
	StateWaiting
	StateStopping
	StateClosed
	StateStopped
	StateError
)

// String renders the state the way the teacher's enum types do: a short,
// lowercase word, suitable for a log field.
func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateConnecting:
		return "connecting"
	case StateListening:
		return "listening"
	case StateStarted:
		return "started"
	case StateConnected:
		return "connected"
	case StateWaiting:
		return "waiting"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
