// Package socket applies the one per-connection socket option this engine
// cares about. The teacher's socket package (pkg/shockwave/socket) tunes
// keepalive, receive/send buffers, TCP_QUICKACK, TCP_DEFER_ACCEPT, and
// TCP_FASTOPEN, all worth it on a server that holds a connection open for
// many requests. This engine closes every connection after exactly one
// response, so DeferAccept/FastOpen have nothing to defer or speed up,
// QuickAck saves a delayed ack we no longer get to reuse, and keepalive
// never gets an idle period to probe. TCP_NODELAY is the one option that
// still pays for itself: it keeps Nagle's algorithm from coalescing a
// response written in a few small Write calls.
package socket

import "golang.org/x/sys/unix"

// SetNoDelay disables Nagle's algorithm on an accepted connection's raw
// file descriptor. Grounded on the teacher's socket/tuning.go Apply, which
// does the same thing through a net.TCPConn's SyscallConn; this engine
// never wraps its descriptors in net.Conn, so the option is set directly
// with golang.org/x/sys/unix, matching how listener.go already operates on
// raw descriptors.
func SetNoDelay(fd int) error {
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
}
