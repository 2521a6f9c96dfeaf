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

// Package buffer provides the immutable, reference-counted-by-sharing byte
// sequence used for every queued send. A Buffer is a value type: copying it
// copies the header, never the underlying bytes, so many OutputQueue entries
// can share one allocation safely across goroutines.
package buffer

// Buffer is an immutable view over a byte sequence.
type Buffer struct {
	b []byte
}

// New copies p into a new Buffer. The caller's slice may be reused or
// mutated afterward without affecting the Buffer.
func New(p []byte) Buffer {
	c := make([]byte, len(p))
	copy(c, p)
	return Buffer{b: c}
}

// Wrap takes ownership of p without copying. Callers must not mutate p
// afterward.
func Wrap(p []byte) Buffer {
	return Buffer{b: p}
}

// Len returns the number of bytes in the buffer.
func (b Buffer) Len() int {
	return len(b.b)
}

// Bytes returns the underlying byte slice. Callers must treat it as
// read-only.
func (b Buffer) Bytes() []byte {
	return b.b
}

// IsZero reports whether the buffer holds no data.
func (b Buffer) IsZero() bool {
	return len(b.b) == 0
}
