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

// Package ticker runs a function on a fixed interval, on top of the same
// restartable start/stop lifecycle as package startStop. It drives the
// engine's periodic queue/statistics sampling (Engine.StartMetricsSampling).
package ticker

import (
	"context"
	"time"
)

// TickFunc is invoked on every tick. Returning a non-nil error does not stop
// the ticker; it is only recorded and retrievable through ErrorsLast/ErrorsList.
type TickFunc func(ctx context.Context, tck *time.Ticker) error

// Runner is a restartable periodic task.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

// New builds a ticker Runner that calls fn every interval. With a
// non-positive interval the runner stays running until stopped without ever
// ticking. With a nil fn the first tick records an "invalid function" error
// and ends the run. Start returns an error for a nil context.
func New(interval time.Duration, fn TickFunc) Runner {
	return newModel(interval, fn)
}
