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

// Package config defines the validated configuration structs accepted by
// package logger. It mirrors the teacher's options-with-validator-tags
// pattern, trimmed to the single stdout/stderr destination the engine
// actually needs; file and syslog sinks are out of scope for a library whose
// job is moving bytes over sockets, not operating its own logging backend.
package config

import (
	libval "github.com/go-playground/validator/v10"

	loglvl "github.com/nabbar/netip/logger/level"
)

// Options configures a Logger instance.
type Options struct {
	// Stdout configures the stdout/stderr destination. A nil Stdout keeps
	// output on stdout and leaves the current level and formatter unchanged.
	Stdout *OptionsStd `json:"stdout,omitempty" yaml:"stdout,omitempty" toml:"stdout,omitempty" mapstructure:"stdout,omitempty" validate:"omitempty"`
}

// OptionsStd configures the stdout/stderr sink.
type OptionsStd struct {
	// DisableStandard turns off writing to stdout/stderr entirely.
	DisableStandard bool `json:"disableStandard,omitempty" yaml:"disableStandard,omitempty" toml:"disableStandard,omitempty" mapstructure:"disableStandard,omitempty"`

	// DisableColor forces plain-text output even on a tty.
	DisableColor bool `json:"disableColor,omitempty" yaml:"disableColor,omitempty" toml:"disableColor,omitempty" mapstructure:"disableColor,omitempty"`

	// DisableTimestamp removes the timestamp field from each entry.
	DisableTimestamp bool `json:"disableTimestamp,omitempty" yaml:"disableTimestamp,omitempty" toml:"disableTimestamp,omitempty" mapstructure:"disableTimestamp,omitempty"`

	// Level is the minimal level written to stdout/stderr.
	Level loglvl.Level `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty" mapstructure:"level,omitempty"`
}

// Clone returns a deep copy of o.
func (o *OptionsStd) Clone() *OptionsStd {
	if o == nil {
		return nil
	}

	c := *o
	return &c
}

// Validate checks the Options struct against its validator tags.
func (o *Options) Validate() error {
	return libval.New().Struct(o)
}

// Default returns the package default Options: stdout enabled, InfoLevel,
// colorized when attached to a tty.
func Default() *Options {
	return &Options{
		Stdout: &OptionsStd{
			Level: loglvl.InfoLevel,
		},
	}
}
