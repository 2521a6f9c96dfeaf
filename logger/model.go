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

package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	logcfg "github.com/nabbar/netip/logger/config"
	loglvl "github.com/nabbar/netip/logger/level"
)

type lgr struct {
	mu     sync.RWMutex
	lvl    loglvl.Level
	opt    *logcfg.Options
	fields map[string]any
	log    *logrus.Logger
}

func newModel() *lgr {
	l := &lgr{
		lvl:    loglvl.InfoLevel,
		opt:    logcfg.Default(),
		fields: make(map[string]any),
		log:    logrus.New(),
	}

	l.log.SetOutput(os.Stdout)
	l.log.SetLevel(loglvl.InfoLevel.Logrus())

	return l
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lvl = lvl
	l.log.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() loglvl.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.lvl
}

func (l *lgr) SetOptions(opt *logcfg.Options) error {
	if opt == nil {
		opt = logcfg.Default()
	}

	if err := opt.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.opt = opt

	if opt.Stdout != nil && opt.Stdout.DisableStandard {
		l.log.SetOutput(io.Discard)
	} else {
		l.log.SetOutput(os.Stdout)
	}

	if opt.Stdout != nil {
		l.log.SetFormatter(&logrus.TextFormatter{
			DisableColors:    opt.Stdout.DisableColor,
			DisableTimestamp: opt.Stdout.DisableTimestamp,
		})

		if opt.Stdout.Level != loglvl.NilLevel {
			l.lvl = opt.Stdout.Level
			l.log.SetLevel(opt.Stdout.Level.Logrus())
		}
	}

	return nil
}

func (l *lgr) GetOptions() *logcfg.Options {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.opt
}

func (l *lgr) SetFields(fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fields = fields
}

func (l *lgr) GetFields() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}

	return out
}

func (l *lgr) entry(data any) *logrus.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e := l.log.WithFields(l.fields)
	if data != nil {
		e = e.WithField("data", data)
	}

	return e
}

func (l *lgr) Debug(message string, data any, args ...any) {
	l.entry(data).Debugf(message, args...)
}

func (l *lgr) Info(message string, data any, args ...any) {
	l.entry(data).Infof(message, args...)
}

func (l *lgr) Warning(message string, data any, args ...any) {
	l.entry(data).Warnf(message, args...)
}

func (l *lgr) Error(message string, data any, args ...any) {
	l.entry(data).Errorf(message, args...)
}

func (l *lgr) Fatal(message string, data any, args ...any) {
	l.entry(data).Fatalf(message, args...)
}

func (l *lgr) Panic(message string, data any, args ...any) {
	l.entry(data).Panicf(message, args...)
}

// Write implements io.Writer, logging p at the current level.
func (l *lgr) Write(p []byte) (n int, err error) {
	l.entry(nil).Log(l.GetLevel().Logrus(), string(p))
	return len(p), nil
}

// Close implements io.Closer; there is no resource held by the stdout sink.
func (l *lgr) Close() error {
	return nil
}
