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

package pidcontroller

import (
	"context"
	"math"
)

const (
	maxSteps   = 64
	settleFrac = 0.01 // stop once within 1% of the target
)

type pid struct {
	kp, ki, kd float64
}

func (p *pid) Range(start, end float64) []float64 {
	return p.RangeCtx(context.Background(), start, end)
}

// RangeCtx walks the controller from start towards end, using the classic
// error/integral/derivative correction to pick each next step. The process
// terminates when the output settles within settleFrac of end, or after
// maxSteps iterations, or when ctx is done.
func (p *pid) RangeCtx(ctx context.Context, start, end float64) []float64 {
	out := make([]float64, 0, maxSteps)

	if start == end {
		return append(out, start)
	}

	span := end - start
	cur := start
	integral := 0.0
	prevErr := span

	out = append(out, cur)

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		errv := end - cur
		integral += errv
		derivative := errv - prevErr
		prevErr = errv

		step := p.kp*errv + p.ki*integral + p.kd*derivative
		if step == 0 {
			break
		}

		cur += step
		out = append(out, cur)

		if math.Abs(end-cur) <= math.Abs(span)*settleFrac {
			break
		}
	}

	if out[len(out)-1] != end {
		out = append(out, end)
	}

	return out
}
