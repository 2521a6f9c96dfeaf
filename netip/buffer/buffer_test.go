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

package buffer_test

import (
	"github.com/nabbar/netip/netip/buffer"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Buffer", func() {
	Describe("New", func() {
		It("copies the source slice", func() {
			src := []byte("hello")
			b := buffer.New(src)

			src[0] = 'H'

			Expect(b.Bytes()).To(Equal([]byte("hello")))
			Expect(b.Len()).To(Equal(5))
		})
	})

	Describe("Wrap", func() {
		It("takes ownership without copying", func() {
			src := []byte("hello")
			b := buffer.Wrap(src)

			Expect(b.Bytes()).To(Equal([]byte("hello")))
			Expect(&b.Bytes()[0]).To(Equal(&src[0]))
		})
	})

	Describe("IsZero", func() {
		It("is true for an empty buffer", func() {
			Expect(buffer.New(nil).IsZero()).To(BeTrue())
		})

		It("is false once it holds bytes", func() {
			Expect(buffer.New([]byte("x")).IsZero()).To(BeFalse())
		})
	})
})
