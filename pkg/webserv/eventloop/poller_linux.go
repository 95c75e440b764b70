//go:build linux

// Package eventloop implements the readiness-driven dispatch loop: one
// thread, no goroutine-per-connection, epoll on Linux (this file) and
// kqueue on Darwin (poller_darwin.go).
package eventloop

import "golang.org/x/sys/unix"

// maxEvents bounds how many ready descriptors wait() reports per call.
const maxEvents = 256

// poller wraps a single epoll instance.
type poller struct {
	fd     int
	events []unix.EpollEvent
}

func newPoller() (*poller, error) {
	fd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &poller{fd: fd, events: make([]unix.EpollEvent, maxEvents)}, nil
}

func (p *poller) close() error {
	return unix.Close(p.fd)
}

// addRead registers fd for edge-triggered read readiness: a readiness event
// fires once per transition to readable, not once per poll while data sits
// unread, so handlers must drain a descriptor until EAGAIN before returning.
func (p *poller) addRead(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLET, Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

// modifyWrite switches fd's interest to write-only, still edge-triggered.
func (p *poller) modifyWrite(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLOUT | unix.EPOLLET, Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, &ev)
}

// modifyRead switches fd's interest back to read-only, still edge-triggered.
func (p *poller) modifyRead(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLET, Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (p *poller) remove(fd int) error {
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
}

// wait blocks until at least one descriptor is ready (or an error/signal
// interrupts it) and reports each one's readiness bits.
func (p *poller) wait() ([]readyEvent, error) {
	n, err := unix.EpollWait(p.fd, p.events, -1)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	out := make([]readyEvent, 0, n)
	for i := 0; i < n; i++ {
		e := p.events[i]
		out = append(out, readyEvent{
			fd:       int(e.Fd),
			readable: e.Events&unix.EPOLLIN != 0,
			writable: e.Events&unix.EPOLLOUT != 0,
			hangup:   e.Events&(unix.EPOLLHUP|unix.EPOLLERR) != 0,
		})
	}
	return out, nil
}
