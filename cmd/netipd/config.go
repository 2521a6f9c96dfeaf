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

package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nabbar/netip/duration"
)

// Config describes one engine's worth of acceptors, connectors, and UDP
// entities — the file format cmd/netipd loads via viper. Nothing in the
// core (netip, netip/tcp, netip/udp) ever sees this struct directly; it
// exists solely at this outward-facing edge, per spec.md §6's "no stable
// on-disk format in the core."
type Config struct {
	Acceptors  []AcceptorConfig  `mapstructure:"acceptors" validate:"dive"`
	Connectors []ConnectorConfig `mapstructure:"connectors" validate:"dive"`
	Udp        []UdpConfig       `mapstructure:"udp" validate:"dive"`
}

// AcceptorConfig binds one TcpAcceptor.
type AcceptorConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Addr        string `mapstructure:"addr" validate:"required,hostname_port"`
	ReuseAddr   bool   `mapstructure:"reuse_addr"`
	MaxChildren int    `mapstructure:"max_children" validate:"gte=0"`
}

// ConnectorConfig binds one TcpConnector.
type ConnectorConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Network string `mapstructure:"network" validate:"required,oneof=tcp tcp4 tcp6"`
	Host    string `mapstructure:"host" validate:"required"`
	Service string `mapstructure:"service" validate:"required"`

	// ReconnectFixed/Initial/Ceiling accept duration.Duration's extended
	// notation (e.g. "1d12h", not just Go's "h"/"m"/"s"), so an operator
	// describing a long-lived connector's backoff ceiling in days doesn't
	// have to convert it to hours by hand.
	ReconnectPolicy  string            `mapstructure:"reconnect_policy" validate:"required,oneof=never fixed backoff"`
	ReconnectFixed   duration.Duration `mapstructure:"reconnect_fixed"`
	ReconnectInitial duration.Duration `mapstructure:"reconnect_initial"`
	ReconnectCeiling duration.Duration `mapstructure:"reconnect_ceiling"`
}

// UdpConfig binds one UdpEntity.
type UdpConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Addr      string `mapstructure:"addr" validate:"required,hostname_port"`
	ReuseAddr bool   `mapstructure:"reuse_addr"`
	MaxSize   int    `mapstructure:"max_size" validate:"required,gt=0"`
}

// Validate runs struct-tag validation over the whole config tree.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
