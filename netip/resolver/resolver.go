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

// Package resolver turns a (host, service) pair into the ordered list of
// dial-able endpoints TcpConnector walks during its Connecting state,
// per spec.md §4.7 ("resolved lazily from a (host, service) pair on first
// start" / "re-performed on each reconnect attempt"). No example in the
// retrieval pack wraps DNS lookups behind a library of its own — every
// repo that dials out does so against net.Resolver directly — so this
// stays on the standard library rather than inventing a dependency for it.
package resolver

import (
	"context"
	"net"
)

// Resolver produces the ordered endpoint list for one (host, service) pair.
type Resolver interface {
	Resolve(ctx context.Context, network, host, service string) ([]string, error)
}

// Default wraps *net.Resolver.
type Default struct {
	R *net.Resolver
}

// New returns a Resolver backed by net.DefaultResolver.
func New() Resolver {
	return Default{R: net.DefaultResolver}
}

// Resolve looks host up and pairs every returned address with service,
// preserving the order net.Resolver returned them in.
func (d Default) Resolve(ctx context.Context, network, host, service string) ([]string, error) {
	r := d.R
	if r == nil {
		r = net.DefaultResolver
	}

	addrs, err := r.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, net.JoinHostPort(a, service))
	}

	_ = network // reserved: network is passed through to Dial, not to the lookup itself

	return out, nil
}

// Static returns a Resolver that always yields the same fixed endpoint
// list, for callers that already have an ordered address list and want no
// lazy re-resolution.
func Static(endpoints []string) Resolver {
	return staticResolver{endpoints: endpoints}
}

type staticResolver struct {
	endpoints []string
}

func (s staticResolver) Resolve(_ context.Context, _, _, _ string) ([]string, error) {
	return s.endpoints, nil
}
