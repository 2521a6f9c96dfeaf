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

package config_test

import (
	logcfg "github.com/nabbar/netip/logger/config"
	loglvl "github.com/nabbar/netip/logger/level"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Default", func() {
	It("enables stdout at InfoLevel", func() {
		o := logcfg.Default()

		Expect(o.Stdout).ToNot(BeNil())
		Expect(o.Stdout.Level).To(Equal(loglvl.InfoLevel))
		Expect(o.Stdout.DisableStandard).To(BeFalse())
	})

	It("passes its own validation", func() {
		Expect(logcfg.Default().Validate()).To(Succeed())
	})
})

var _ = Describe("Options.Validate", func() {
	It("accepts a nil Stdout (falls back to package defaults at apply time)", func() {
		o := &logcfg.Options{}
		Expect(o.Validate()).To(Succeed())
	})

	It("accepts a fully populated Stdout", func() {
		o := &logcfg.Options{
			Stdout: &logcfg.OptionsStd{
				DisableColor:     true,
				DisableTimestamp: true,
				Level:            loglvl.DebugLevel,
			},
		}
		Expect(o.Validate()).To(Succeed())
	})
})

var _ = Describe("OptionsStd.Clone", func() {
	It("returns an equal but independent copy", func() {
		o := &logcfg.OptionsStd{
			DisableStandard: true,
			DisableColor:    true,
			Level:           loglvl.WarnLevel,
		}

		c := o.Clone()
		Expect(c).To(Equal(o))

		c.Level = loglvl.ErrorLevel
		Expect(o.Level).To(Equal(loglvl.WarnLevel))
	})

	It("returns nil when cloning a nil receiver", func() {
		var o *logcfg.OptionsStd
		Expect(o.Clone()).To(BeNil())
	})
})
