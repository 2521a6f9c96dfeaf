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

// Package logger provides the structured, level-filtered logging facade used
// throughout the engine: every acceptor, connector, io handler and the engine
// itself logs through a Logger rather than the standard log package, so a
// caller embedding the engine can redirect, filter or silence it uniformly.
package logger

import (
	"context"
	"io"

	logcfg "github.com/nabbar/netip/logger/config"
	loglvl "github.com/nabbar/netip/logger/level"
)

// Logger is a small, level-filtered structured logger backed by logrus. It
// implements io.WriteCloser so it can also be handed to code that expects a
// plain writer (e.g. as the output of a net/http-less access log line).
type Logger interface {
	io.WriteCloser

	// SetLevel changes the minimal level written by Debug/Info/.../Panic.
	SetLevel(lvl loglvl.Level)

	// GetLevel returns the current minimal level.
	GetLevel() loglvl.Level

	// SetOptions applies new Options, validating them first.
	SetOptions(opt *logcfg.Options) error

	// GetOptions returns the currently applied Options.
	GetOptions() *logcfg.Options

	// SetFields sets structured fields merged into every future entry.
	SetFields(fields map[string]any)

	// GetFields returns a copy of the current default fields.
	GetFields() map[string]any

	Debug(message string, data any, args ...any)
	Info(message string, data any, args ...any)
	Warning(message string, data any, args ...any)
	Error(message string, data any, args ...any)
	Fatal(message string, data any, args ...any)
	Panic(message string, data any, args ...any)
}

// New returns a Logger with InfoLevel and stdout output enabled. ctx is kept
// for parity with the teacher's context-scoped constructors and may be used
// by callers to derive fields (e.g. a request/connection id) in the future.
func New(_ context.Context) Logger {
	return newModel()
}
