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

// Package runner collects the small set of helpers shared by every
// restartable component built on top of startStop/ticker: in particular a
// single place to turn a recovered panic into a structured log line instead
// of letting it take down the whole process.
package runner

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// RecoveryCaller logs a panic recovered by a goroutine launched from caller.
// It is a no-op when r is nil, which is what recover() returns when nothing
// panicked - so callers can defer it unconditionally. extra is joined into
// the log line for call sites that have a bit of local context to add (e.g.
// which job was running).
func RecoveryCaller(caller string, r any, extra ...string) {
	if r == nil {
		return
	}

	e := logrus.WithField("caller", caller).WithField("recover", r)
	if len(extra) > 0 {
		e = e.WithField("context", strings.Join(extra, "; "))
	}

	e.Error("recovered from panic")
}
