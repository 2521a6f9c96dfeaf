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

package semaphore

import (
	"context"
	"sync"

	xsem "golang.org/x/sync/semaphore"
)

type model struct {
	context.Context
	cancel context.CancelFunc

	size int64
	sem  *xsem.Weighted

	mu      sync.Mutex
	waiters sync.WaitGroup

	withProgress bool
}

func newModel(ctx context.Context, size int, withProgress bool) *model {
	cctx, cancel := context.WithCancel(ctx)

	m := &model{
		Context:      cctx,
		cancel:       cancel,
		withProgress: withProgress,
	}

	if size > 0 {
		m.size = int64(size)
		m.sem = xsem.NewWeighted(int64(size))
	} else {
		m.size = -1
	}

	return m
}

func (m *model) NewWorker() error {
	if m.sem == nil {
		m.waiters.Add(1)
		return nil
	}

	if err := m.sem.Acquire(m.Context, 1); err != nil {
		return err
	}

	m.waiters.Add(1)
	return nil
}

func (m *model) NewWorkerTry() bool {
	if m.sem == nil {
		m.waiters.Add(1)
		return true
	}

	if !m.sem.TryAcquire(1) {
		return false
	}

	m.waiters.Add(1)
	return true
}

func (m *model) DeferWorker() {
	if m.sem != nil {
		m.sem.Release(1)
	}

	m.waiters.Done()
}

func (m *model) DeferMain() {
	m.cancel()
}

func (m *model) WaitAll() error {
	done := make(chan struct{})

	go func() {
		m.waiters.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-m.Context.Done():
		return m.Context.Err()
	}
}

func (m *model) Weighted() int64 {
	return m.size
}

func (m *model) New() Sem {
	m.mu.Lock()
	defer m.mu.Unlock()

	return newModel(m.Context, int(m.size), m.withProgress)
}
