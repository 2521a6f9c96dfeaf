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

package startStop

import (
	"context"
	"errors"
	"sync"
	"time"
)

const maxErrHistory = 64

type model struct {
	fnStart StartFunc
	fnStop  StopFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	since   time.Time

	errMu sync.Mutex
	errs  []error
}

func newModel(start StartFunc, stop StopFunc) *model {
	return &model{
		fnStart: start,
		fnStop:  stop,
	}
}

func (m *model) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.stopLocked(ctx)
	}

	m.errMu.Lock()
	m.errs = nil
	m.errMu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.cancel = cancel
	m.done = done
	m.running = true
	m.since = time.Now()

	go func() {
		var err error
		if m.fnStart != nil {
			err = m.fnStart(cctx)
		} else {
			err = errors.New("invalid start function")
		}

		if err != nil {
			m.pushErr(err)
		}
		close(done)

		m.mu.Lock()
		if m.done == done {
			m.running = false
			m.since = time.Time{}
			m.cancel = nil
			m.done = nil
			cancel()
		}
		m.mu.Unlock()
	}()

	return nil
}

func (m *model) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stopLocked(ctx)
}

// stopLocked must be called with m.mu held.
func (m *model) stopLocked(ctx context.Context) error {
	if !m.running {
		return nil
	}

	cancel := m.cancel
	done := m.done

	m.running = false
	m.since = time.Time{}
	m.cancel = nil
	m.done = nil

	cancel()
	<-done

	if m.fnStop == nil {
		m.pushErr(errors.New("invalid stop function"))
	} else if err := m.fnStop(ctx); err != nil {
		m.pushErr(err)
	}

	return nil
}

func (m *model) Restart(ctx context.Context) error {
	m.mu.Lock()
	m.stopLocked(ctx)
	m.mu.Unlock()

	return m.Start(ctx)
}

func (m *model) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}

func (m *model) Uptime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || m.since.IsZero() {
		return 0
	}

	return time.Since(m.since)
}

func (m *model) pushErr(err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()

	m.errs = append(m.errs, err)
	if len(m.errs) > maxErrHistory {
		m.errs = m.errs[len(m.errs)-maxErrHistory:]
	}
}

func (m *model) ErrorsLast() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()

	if len(m.errs) == 0 {
		return nil
	}

	return m.errs[len(m.errs)-1]
}

func (m *model) ErrorsList() []error {
	m.errMu.Lock()
	defer m.errMu.Unlock()

	out := make([]error, len(m.errs))
	copy(out, m.errs)

	return out
}
