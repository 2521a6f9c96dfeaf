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

package waitqueue_test

import (
	"time"

	"github.com/nabbar/netip/netip/waitqueue"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Queue", func() {
	It("delivers pushed jobs in FIFO order over Chan", func() {
		q := waitqueue.New(0)

		var order []int
		Expect(q.Push(func() { order = append(order, 1) })).To(Succeed())
		Expect(q.Push(func() { order = append(order, 2) })).To(Succeed())
		Expect(q.Push(func() { order = append(order, 3) })).To(Succeed())

		for i := 0; i < 3; i++ {
			select {
			case job := <-q.Chan():
				job()
			case <-time.After(time.Second):
				Fail("timed out waiting for job")
			}
		}

		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("defaults to a generous bounded capacity when size <= 0", func() {
		q := waitqueue.New(0)
		for i := 0; i < 100; i++ {
			Expect(q.Push(func() {})).To(Succeed())
		}
	})

	It("rejects further pushes once closed", func() {
		q := waitqueue.New(4)
		q.Close()

		err := q.Push(func() {})
		Expect(err).To(MatchError(waitqueue.ErrClosed))
	})

	It("tolerates Close being called more than once", func() {
		q := waitqueue.New(4)
		q.Close()
		Expect(func() { q.Close() }).ToNot(Panic())
	})

	It("closes the channel so a ranging consumer observes ok=false once drained", func() {
		q := waitqueue.New(4)
		Expect(q.Push(func() {})).To(Succeed())
		q.Close()

		_, ok := <-q.Chan()
		Expect(ok).To(BeTrue())

		_, ok = <-q.Chan()
		Expect(ok).To(BeFalse())
	})
})
