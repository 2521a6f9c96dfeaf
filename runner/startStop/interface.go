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

// Package startStop provides a minimal, reusable start/stop lifecycle wrapper
// around a pair of user functions, used as the concurrency primitive shared by
// every long-running component of the netip engine (io handlers, acceptors,
// connectors, udp entities, and the engine itself).
package startStop

import (
	"context"
	"time"
)

// StartFunc is run in its own goroutine once Start is called. It should block
// for as long as the component is meant to be running and return when ctx is
// cancelled or when the component stops on its own (e.g. a fatal I/O error).
type StartFunc func(ctx context.Context) error

// StopFunc is invoked synchronously by Stop, after the running StartFunc's
// context has been cancelled and the StartFunc has returned, to perform any
// additional teardown.
type StopFunc func(ctx context.Context) error

// StartStop is a restartable, concurrency-safe start/stop lifecycle.
type StartStop interface {
	// Start launches the start function in a new goroutine, stopping and
	// replacing any instance already running. It returns once the goroutine
	// has been scheduled, not once it has produced its first observable effect.
	Start(ctx context.Context) error

	// Stop cancels the running instance, waits for the start function to
	// return, then runs the stop function. An error from the stop function
	// is recorded in the error list and Stop itself returns nil. Calling Stop
	// when nothing is running is a no-op.
	Stop(ctx context.Context) error

	// Restart stops any running instance and starts a new one. Restarting
	// when nothing is running behaves like a plain Start.
	Restart(ctx context.Context) error

	// IsRunning reports whether a start function is currently active. It
	// turns false once the start function returns or Stop completes.
	IsRunning() bool

	// Uptime reports how long the current run has been active, or zero when
	// nothing is running.
	Uptime() time.Duration

	// ErrorsLast returns the most recent error recorded since the last Start,
	// or nil.
	ErrorsLast() error

	// ErrorsList returns the errors collected since the last Start, keeping
	// at most the last 64.
	ErrorsList() []error
}

// New builds a StartStop runner around the given start/stop functions. A nil
// start function records an "invalid start function" error and the run ends
// at once; a nil stop function records an "invalid stop function" error each
// time a running instance is stopped.
func New(start StartFunc, stop StopFunc) StartStop {
	return newModel(start, stop)
}
