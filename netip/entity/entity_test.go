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

package entity_test

import (
	logcfg "github.com/nabbar/netip/logger/config"
	loglvl "github.com/nabbar/netip/logger/level"
	"github.com/nabbar/netip/netip/entity"
	"github.com/nabbar/netip/netip/handle"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// recordingLogger is a minimal logger.Logger fake that records the last
// Debug/Error call it received.
type recordingLogger struct {
	lastDebug string
	lastError string
}

func (r *recordingLogger) Write(p []byte) (int, error)        { return len(p), nil }
func (r *recordingLogger) Close() error                       { return nil }
func (r *recordingLogger) SetLevel(loglvl.Level)               {}
func (r *recordingLogger) GetLevel() loglvl.Level              { return loglvl.InfoLevel }
func (r *recordingLogger) SetOptions(*logcfg.Options) error    { return nil }
func (r *recordingLogger) GetOptions() *logcfg.Options         { return logcfg.Default() }
func (r *recordingLogger) SetFields(map[string]any)            {}
func (r *recordingLogger) GetFields() map[string]any           { return nil }
func (r *recordingLogger) Debug(m string, _ any, _ ...any)     { r.lastDebug = m }
func (r *recordingLogger) Info(string, any, ...any)            {}
func (r *recordingLogger) Warning(string, any, ...any)         {}
func (r *recordingLogger) Error(m string, _ any, _ ...any)     { r.lastError = m }
func (r *recordingLogger) Fatal(string, any, ...any)           {}
func (r *recordingLogger) Panic(string, any, ...any)           {}

var _ = Describe("Common", func() {
	var c *entity.Common

	BeforeEach(func() {
		c = &entity.Common{}
	})

	Describe("Begin/End lifecycle", func() {
		It("rejects a second Begin", func() {
			ok, err := c.Begin(nil, nil)
			Expect(ok).To(BeTrue())
			Expect(err).ToNot(HaveOccurred())

			ok, err = c.Begin(nil, nil)
			Expect(ok).To(BeFalse())
			Expect(err).To(HaveOccurred())
		})

		It("rejects Begin after End", func() {
			ok, _ := c.End()
			Expect(ok).To(BeTrue())

			ok, err := c.Begin(nil, nil)
			Expect(ok).To(BeFalse())
			Expect(err).To(HaveOccurred())
		})

		It("rejects a second End", func() {
			ok, _ := c.End()
			Expect(ok).To(BeTrue())

			ok, err := c.End()
			Expect(ok).To(BeFalse())
			Expect(err).To(HaveOccurred())
		})

		It("IsStarted reflects Begin/End", func() {
			Expect(c.IsStarted()).To(BeFalse())

			_, _ = c.Begin(nil, nil)
			Expect(c.IsStarted()).To(BeTrue())

			_, _ = c.End()
			Expect(c.IsStarted()).To(BeFalse())
		})
	})

	Describe("callbacks", func() {
		It("invokes the registered state-change and error callbacks", func() {
			var gotCount int
			var gotStarting bool
			var gotErr error

			_, _ = c.Begin(
				func(_ handle.IoInterface, count int, starting bool) {
					gotCount, gotStarting = count, starting
				},
				func(_ handle.IoInterface, err error) {
					gotErr = err
				},
			)

			c.StateChange(handle.IoInterface{}, 3, true)
			Expect(gotCount).To(Equal(3))
			Expect(gotStarting).To(BeTrue())

			sentinel := errTest("boom")
			c.Error(handle.IoInterface{}, sentinel)
			Expect(gotErr).To(Equal(sentinel))
		})

		It("tolerates nil callbacks", func() {
			_, _ = c.Begin(nil, nil)
			Expect(func() {
				c.StateChange(handle.IoInterface{}, 1, true)
				c.Error(handle.IoInterface{}, errTest("x"))
			}).ToNot(Panic())
		})
	})

	Describe("logger wiring", func() {
		It("is a no-op before SetLogger is called", func() {
			Expect(func() {
				c.LogDebug("hello", nil)
				c.LogError("failed", errTest("x"))
			}).ToNot(Panic())
		})

		It("forwards to the installed logger", func() {
			rl := &recordingLogger{}
			c.SetLogger(rl)

			c.LogDebug("connected", nil)
			Expect(rl.lastDebug).To(Equal("connected"))

			c.LogError("dial failed", errTest("boom"))
			Expect(rl.lastError).To(Equal("dial failed"))
		})

		It("ignores a nil logger", func() {
			c.SetLogger(nil)
			Expect(func() { c.LogDebug("x", nil) }).ToNot(Panic())
		})
	})
})

type errTest string

func (e errTest) Error() string { return string(e) }
