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

// Package framing implements the rules by which bytes on a stream are split
// into application messages: fixed-size, delimiter-terminated, and
// variable-length-header framed reads, plus the always-available
// send-only mode.
package framing

import (
	"encoding/binary"
	"errors"
)

// ErrNegativeSize is returned by a HeaderDecoder that computed a negative
// body size. BigEndianUint16Decoder also returns it for a header shorter
// than 2 bytes.
var ErrNegativeSize = errors.New("framing: negative body size")

// Kind selects which framing strategy a TcpIoHandler or UdpEntity uses.
type Kind int

const (
	// KindFixed reads exactly Size bytes per message.
	KindFixed Kind = iota
	// KindDelimiter accumulates bytes until Delimiter is found.
	KindDelimiter
	// KindHeader reads HeaderSize bytes, then calls FrameFunc to learn how
	// many more bytes complete the message.
	KindHeader
	// KindSendOnly issues no reads; sends remain permitted.
	KindSendOnly
)

// MessageFunc is invoked once a complete message has been assembled. It
// receives the assembled bytes and the remote endpoint's string form. A
// false return requests that the handler be stopped.
type MessageFunc func(msg []byte, remote string) bool

// FrameFunc is re-invoked after each additional read in KindHeader mode. It
// receives the bytes read so far and returns the number of further bytes
// needed to complete the message; zero signals "message complete."
type FrameFunc func(soFar []byte) (more int, err error)

// HeaderDecoder computes a message body size from header bytes.
type HeaderDecoder func(header []byte) (bodySize int, err error)

// Mode is the fully-specified framing configuration for one handler.
type Mode struct {
	Kind      Kind
	Size      int       // KindFixed: exact message size.
	Delimiter byte      // KindDelimiter: terminator byte.
	HeaderLen int       // KindHeader: header byte count.
	FrameFunc FrameFunc // KindHeader: generalized frame function.
}

// Fixed builds a fixed-size framing mode.
func Fixed(size int) Mode {
	return Mode{Kind: KindFixed, Size: size}
}

// Delimiter builds a delimiter-terminated framing mode.
func Delimiter(delim byte) Mode {
	return Mode{Kind: KindDelimiter, Delimiter: delim}
}

// Header builds a length-prefixed framing mode from an explicit frame
// function (see SimpleVariableLenFrame for the common case).
func Header(headerLen int, fn FrameFunc) Mode {
	return Mode{Kind: KindHeader, HeaderLen: headerLen, FrameFunc: fn}
}

// SendOnly builds a mode that issues no reads.
func SendOnly() Mode {
	return Mode{Kind: KindSendOnly}
}

// BigEndianUint16Decoder is the canonical built-in header decoder: a 16-bit
// big-endian body length.
func BigEndianUint16Decoder(header []byte) (int, error) {
	if len(header) < 2 {
		return 0, ErrNegativeSize
	}
	return int(binary.BigEndian.Uint16(header)), nil
}

// BigEndianUint16Encode appends the 2-byte big-endian length prefix for
// body to dst and returns the result.
func BigEndianUint16Encode(dst []byte, bodyLen int) []byte {
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(bodyLen))
	return append(dst, hdr[:]...)
}

// SimpleVariableLenFrame returns a FrameFunc implementing mode 3 (§4.3) in
// terms of the generalized header mode: it alternates between "need body
// size" (after the header bytes have arrived) and "message complete"
// (after the body bytes have arrived).
func SimpleVariableLenFrame(headerLen int, decoder HeaderDecoder) FrameFunc {
	return func(soFar []byte) (int, error) {
		if len(soFar) == headerLen {
			n, err := decoder(soFar)
			if err != nil {
				return 0, err
			}
			if n < 0 {
				return 0, ErrNegativeSize
			}
			return n, nil
		}
		// Header + body bytes have both arrived: message complete.
		return 0, nil
	}
}
