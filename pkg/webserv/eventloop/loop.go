package eventloop

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/yourusername/webserv/pkg/webserv/cgi"
	"github.com/yourusername/webserv/pkg/webserv/conn"
	"github.com/yourusername/webserv/pkg/webserv/listener"
	"github.com/yourusername/webserv/pkg/webserv/responder"
	"github.com/yourusername/webserv/pkg/webserv/socket"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// readyEvent is one descriptor's readiness report, translated from either
// poller's native event type so loop.go never imports epoll/kqueue
// constants directly.
type readyEvent struct {
	fd       int
	readable bool
	writable bool
	hangup   bool
}

// Loop is the single-threaded dispatch loop: one poller, every accepted
// connection registered with it, no goroutine ever touches a Conn
// concurrently with the loop.
type Loop struct {
	p         *poller
	listeners map[int]*listener.Listener
	conns     map[int]*conn.Conn
}

// New builds a Loop that will serve every Listener in ls.
func New(ls []*listener.Listener) (*Loop, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	l := &Loop{p: p, listeners: make(map[int]*listener.Listener), conns: make(map[int]*conn.Conn)}
	for _, ln := range ls {
		if err := p.addRead(ln.FD); err != nil {
			return nil, err
		}
		l.listeners[ln.FD] = ln
	}
	return l, nil
}

// Run blocks forever, dispatching readiness events: an accept loop that
// stops as soon as accept would block, and read/write/hangup handling per
// connection.
func (l *Loop) Run() error {
	for {
		events, err := l.p.wait()
		if err != nil {
			return err
		}
		for _, ev := range events {
			l.handle(ev)
		}
	}
}

func (l *Loop) handle(ev readyEvent) {
	if ln, ok := l.listeners[ev.fd]; ok {
		l.accept(ln)
		return
	}

	c, ok := l.conns[ev.fd]
	if !ok {
		return
	}

	if ev.hangup {
		l.closeConn(c)
		return
	}

	if ev.readable {
		code, err := c.ReadReady()
		if code != 0 {
			l.respondError(c, code)
			return
		}
		if err != nil {
			l.closeConn(c)
			return
		}
		if c.Phase == conn.Ready {
			l.dispatch(c)
		}
	}

	if ev.writable {
		done, err := c.WriteReady()
		if err != nil || done {
			l.closeConn(c)
		}
	}
}

// accept drains the listening socket's backlog until it would block,
// registering every accepted descriptor for read readiness.
func (l *Loop) accept(ln *listener.Listener) {
	for {
		fd, _, err := unix.Accept(ln.FD)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			return
		}
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fd)
			continue
		}
		_ = socket.SetNoDelay(fd) // best-effort; a response still gets written without it

		if err := l.p.addRead(fd); err != nil {
			unix.Close(fd)
			continue
		}
		l.conns[fd] = conn.New(fd, ln)
	}
}

// dispatch runs the Responder once a request is fully framed and moves the
// connection to Writing.
func (l *Loop) dispatch(c *conn.Conn) {
	req := c.Request
	d := c.Route

	var resp *wire.Response
	switch {
	case req.Normalized:
		resp = responder.NormalizationRedirect(d.Server, req.Target)
	case d.StatusCode == 404 || d.StatusCode == 405:
		resp = responder.ErrorPage(d.Server, d.Server.ServerName, d.StatusCode)
	case d.Location != nil && d.Location.HasRedirect():
		resp = responder.Redirect(d.Server, d.Location)
	default:
		if interpreter, ok := responder.MatchesCGI(d.Location, req.Path); ok {
			resp = cgi.Execute(d.Server, d.Location, req, interpreter, remoteAddrOf(c.FD))
		} else {
			resp = responder.Respond(d.Server, d.Location, req, req.HostPart(), c.Listener.Port)
		}
	}

	l.finish(c, resp)
}

// respondError short-circuits a protocol/body-limit failure straight to an
// error response without involving the Router: 400/413 cases are detected
// inside the Conn state machine itself.
func (l *Loop) respondError(c *conn.Conn, code int) {
	name := ""
	if c.Server != nil {
		name = c.Server.ServerName
	}
	resp := responder.ErrorPage(c.Server, name, code)
	l.finish(c, resp)
}

func (l *Loop) finish(c *conn.Conn, resp *wire.Response) {
	c.SetResponse(resp.Bytes())
	if err := l.p.modifyWrite(c.FD); err != nil {
		l.closeConn(c)
		return
	}
	done, err := c.WriteReady()
	if err != nil || done {
		l.closeConn(c)
	}
}

func (l *Loop) closeConn(c *conn.Conn) {
	_ = l.p.remove(c.FD)
	delete(l.conns, c.FD)
	c.Close()
}

// remoteAddrOf renders a connected socket's peer address for the CGI
// REMOTE_ADDR variable.
func remoteAddrOf(fd int) string {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return ""
	}
	if v4, ok := sa.(*unix.SockaddrInet4); ok {
		ip := net.IPv4(v4.Addr[0], v4.Addr[1], v4.Addr[2], v4.Addr[3])
		return ip.String()
	}
	return ""
}
