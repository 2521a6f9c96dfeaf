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

package socket

import (
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// boolInt converts a bool to the 0/1 int the sockopt syscalls expect.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// controlInt runs a SOL_SOCKET/level-scoped integer setsockopt against
// conn's underlying file descriptor, the pattern every option accessor
// below shares.
func controlInt(conn syscall.Conn, level, opt, value int) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var opErr error
	cErr := raw.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), level, opt, value)
	})
	if cErr != nil {
		return cErr
	}
	return opErr
}

// SetReuseAddress sets SO_REUSEADDR, used by TcpAcceptor.Start and
// UdpEntity.Start per spec.md §4.6/§6.
func SetReuseAddress(conn syscall.Conn, enable bool) error {
	return controlInt(conn, unix.SOL_SOCKET, unix.SO_REUSEADDR, boolInt(enable))
}

// SetNoDelay sets TCP_NODELAY on a TCP connection.
func SetNoDelay(conn *net.TCPConn, enable bool) error {
	return conn.SetNoDelay(enable)
}

// SetBroadcast sets SO_BROADCAST on a UDP socket.
func SetBroadcast(conn syscall.Conn, enable bool) error {
	return controlInt(conn, unix.SOL_SOCKET, unix.SO_BROADCAST, boolInt(enable))
}

// SetMulticastTTL sets IP_MULTICAST_TTL.
func SetMulticastTTL(conn syscall.Conn, ttl int) error {
	return controlInt(conn, unix.IPPROTO_IP, unix.IP_MULTICAST_TTL, ttl)
}

// SetUnicastTTL sets IP_TTL.
func SetUnicastTTL(conn syscall.Conn, ttl int) error {
	return controlInt(conn, unix.IPPROTO_IP, unix.IP_TTL, ttl)
}

// JoinMulticastGroup joins group on the given interface (nil selects the
// default). Per spec.md §9, multicast is expressed as a socket-option visit
// rather than a dedicated factory.
func JoinMulticastGroup(conn *net.UDPConn, ifi *net.Interface, group *net.UDPAddr) error {
	return ipv4.NewPacketConn(conn).JoinGroup(ifi, group)
}

// LeaveMulticastGroup leaves a previously-joined group.
func LeaveMulticastGroup(conn *net.UDPConn, ifi *net.Interface, group *net.UDPAddr) error {
	return ipv4.NewPacketConn(conn).LeaveGroup(ifi, group)
}
