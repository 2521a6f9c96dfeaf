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

package ticker

import (
	"context"
	"errors"
	"time"

	"github.com/nabbar/netip/runner/startStop"
)

type model struct {
	interval time.Duration
	fn       TickFunc
	run      startStop.StartStop
}

func newModel(interval time.Duration, fn TickFunc) *model {
	m := &model{
		interval: interval,
		fn:       fn,
	}

	m.run = startStop.New(m.loop, m.halt)

	return m
}

func (m *model) loop(ctx context.Context) error {
	if m.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	tck := time.NewTicker(m.interval)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tck.C:
			if m.fn == nil {
				return errors.New("invalid function")
			}
			if err := m.fn(ctx, tck); err != nil {
				return err
			}
		}
	}
}

func (m *model) halt(_ context.Context) error {
	return nil
}

func (m *model) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("invalid nil context")
	}

	return m.run.Start(ctx)
}

func (m *model) Stop(ctx context.Context) error {
	return m.run.Stop(ctx)
}

func (m *model) Restart(ctx context.Context) error {
	if err := m.run.Stop(ctx); err != nil {
		return err
	}

	return m.run.Start(ctx)
}

func (m *model) IsRunning() bool {
	return m.run.IsRunning()
}

func (m *model) Uptime() time.Duration {
	return m.run.Uptime()
}

func (m *model) ErrorsLast() error {
	return m.run.ErrorsLast()
}

func (m *model) ErrorsList() []error {
	return m.run.ErrorsList()
}
