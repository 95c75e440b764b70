// Package conn implements the per-connection state machine: ReadingHeaders,
// then ReadingBody, then Ready, then Writing, then Done. A Conn owns a raw,
// non-blocking file descriptor and is driven exclusively by the event loop,
// never shared across goroutines. Adapted from the teacher's
// http11/connection.go state-transition shape, rewritten from a blocking
// keep-alive Serve() loop into an edge-driven ReadReady()/WriteReady() pair
// the poller calls on readiness.
package conn

import (
	"errors"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/listener"
	"github.com/yourusername/webserv/pkg/webserv/router"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// Phase is one state in the connection's parse_phase state machine.
type Phase int

const (
	ReadingHeaders Phase = iota
	ReadingBody
	Ready
	Writing
	Done
)

// MaxHeaderSize is the header-block cap: exceeding it without finding
// "\r\n\r\n" is a protocol error (400, close).
const MaxHeaderSize = 8 * 1024

// readChunk is how much we attempt to pull from the socket per readiness
// notification; non-blocking reads return less whenever that's all there is.
const readChunk = 16 * 1024

var errConnClosed = errors.New("conn: use of closed connection")

// Conn is one accepted connection together with its parse state, owned by
// exactly one event loop iteration at a time.
type Conn struct {
	FD       int
	Listener *listener.Listener

	Phase Phase

	readBuf  *bytebufferpool.ByteBuffer
	writeBuf *bytebufferpool.ByteBuffer

	Request *wire.Request
	chunked *wire.ChunkedDecoder
	body    []byte

	// Server and Location are resolved by the Router as soon as headers are
	// parsed (routing only needs Host/method/URL, all available before the
	// body finishes arriving) so client_max_body_size can be enforced while
	// the body is still streaming in, not just once framing completes.
	Server   *config.ServerConfig
	Location *config.LocationConfig
	Route    router.Decision

	closed bool
}

// New wraps an accepted, already-non-blocking descriptor.
func New(fd int, l *listener.Listener) *Conn {
	return &Conn{
		FD:       fd,
		Listener: l,
		Phase:    ReadingHeaders,
		readBuf:  bytebufferpool.Get(),
		writeBuf: bytebufferpool.Get(),
	}
}

// Close releases the descriptor and returns pooled buffers. Idempotent.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	bytebufferpool.Put(c.readBuf)
	bytebufferpool.Put(c.writeBuf)
	c.Phase = Done
	return unix.Close(c.FD)
}

// ReadReady is called when the poller reports the descriptor is readable.
// It drains as much as is available without blocking, feeding bytes through
// header parsing and then body framing. It returns a non-zero statusCode
// when a protocol/policy error must short-circuit the connection straight to
// an error response (err may then carry the parse error too); statusCode is
// 0 otherwise, and a non-nil err alone means the connection must be closed.
func (c *Conn) ReadReady() (statusCode int, err error) {
	for {
		n, rerr := unix.Read(c.FD, scratch[:])
		if n > 0 {
			c.readBuf.Write(scratch[:n])
			if code, ferr := c.advance(); ferr != nil || code != 0 {
				return code, ferr
			}
			if c.Phase == Ready {
				return 0, nil
			}
		}
		if rerr == unix.EAGAIN || rerr == unix.EWOULDBLOCK {
			return 0, nil
		}
		if rerr != nil {
			return 0, rerr
		}
		if n == 0 {
			// Peer closed the write side; whatever we have is final.
			return 0, errConnClosed
		}
	}
}

// scratch is reused across Read calls; Conn is never touched by more than
// one goroutine, so a package-level buffer avoids a per-call allocation. Its
// contents are copied into readBuf immediately after each read.
var scratch [readChunk]byte

// advance drives the state machine as far as the currently buffered bytes
// allow.
func (c *Conn) advance() (int, error) {
	if c.Phase == ReadingHeaders {
		buf := c.readBuf.B
		idx := indexHeaderEnd(buf)
		if idx == -1 {
			if len(buf) > MaxHeaderSize {
				return 400, wire.ErrHeadersTooLarge
			}
			return 0, nil
		}
		head := buf[:idx]
		req, perr := wire.ParseHead(head)
		if perr != nil {
			return 400, perr
		}
		c.Request = req
		remainder := append([]byte(nil), buf[idx+4:]...)
		c.readBuf.Reset()
		c.readBuf.Write(remainder)

		if req.Chunked {
			c.chunked = wire.NewChunkedDecoder()
		}

		c.Route = router.Route(c.Listener, req.HostPart(), req.Method, req.Path, c.Listener.Port)
		c.Server, c.Location = c.Route.Server, c.Route.Location

		c.Phase = ReadingBody
	}

	if c.Phase == ReadingBody {
		if code, berr := c.feedBody(); berr != nil || code != 0 {
			return code, berr
		}
	}

	return 0, nil
}

// feedBody consumes whatever body bytes are sitting in readBuf, enforcing
// the selected server's client_max_body_size before the Responder ever
// runs.
func (c *Conn) feedBody() (int, error) {
	limit := int64(-1)
	if c.Server != nil {
		limit = c.Server.MaxBodyBytes()
	}

	switch {
	case c.Request.Chunked:
		decoded, derr := c.chunked.Feed(c.readBuf.B)
		c.readBuf.Reset()
		if derr != nil {
			return 400, derr
		}
		c.body = append(c.body, decoded...)
		if limit >= 0 && int64(len(c.body)) > limit {
			return 413, nil
		}
		if c.chunked.Done() {
			c.Request.Body = c.body
			c.Phase = Ready
		}
	case c.Request.ContentLength < 0:
		c.Request.Body = nil
		c.Phase = Ready
	default:
		if limit >= 0 && c.Request.ContentLength > limit {
			return 413, nil
		}
		c.body = append(c.body, c.readBuf.B...)
		c.readBuf.Reset()
		if int64(len(c.body)) >= c.Request.ContentLength {
			c.Request.Body = c.body[:c.Request.ContentLength]
			c.Phase = Ready
		}
	}
	return 0, nil
}

func indexHeaderEnd(b []byte) int {
	for i := 0; i+3 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' && b[i+2] == '\r' && b[i+3] == '\n' {
			return i
		}
	}
	return -1
}

// SetResponse buffers a complete response and moves the connection from
// Ready to Writing.
func (c *Conn) SetResponse(payload []byte) {
	c.writeBuf.Reset()
	c.writeBuf.Write(payload)
	c.Phase = Writing
}

// WriteReady is called when the poller reports the descriptor is writable.
// It drains writeBuf until empty (Done) or the socket would block.
func (c *Conn) WriteReady() (done bool, err error) {
	for len(c.writeBuf.B) > 0 {
		n, werr := unix.Write(c.FD, c.writeBuf.B)
		if n > 0 {
			c.writeBuf.B = c.writeBuf.B[n:]
		}
		if werr == unix.EAGAIN || werr == unix.EWOULDBLOCK {
			return false, nil
		}
		if werr != nil {
			return false, werr
		}
	}
	c.Phase = Done
	return true, nil
}
