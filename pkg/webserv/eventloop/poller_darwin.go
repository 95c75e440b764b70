//go:build darwin

package eventloop

import "golang.org/x/sys/unix"

const maxEvents = 256

// poller wraps a single kqueue instance, offering the same addRead/
// modifyWrite/modifyRead/remove/wait surface as the Linux epoll poller so
// the dispatch loop in loop.go is platform-agnostic.
type poller struct {
	fd     int
	events []unix.Kevent_t
}

func newPoller() (*poller, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &poller{fd: fd, events: make([]unix.Kevent_t, maxEvents)}, nil
}

func (p *poller) close() error {
	return unix.Close(p.fd)
}

// addRead registers fd for edge-triggered read readiness: EV_CLEAR resets
// the event after each delivery instead of re-firing while data sits
// unread, matching EPOLLET's semantics on Linux.
func (p *poller) addRead(fd int) error {
	return p.register(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE|unix.EV_CLEAR)
}

func (p *poller) modifyWrite(fd int) error {
	if err := p.register(fd, unix.EVFILT_READ, unix.EV_DELETE); err != nil {
		return err
	}
	return p.register(fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_ENABLE|unix.EV_CLEAR)
}

func (p *poller) modifyRead(fd int) error {
	if err := p.register(fd, unix.EVFILT_WRITE, unix.EV_DELETE); err != nil {
		return err
	}
	return p.register(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE|unix.EV_CLEAR)
}

func (p *poller) remove(fd int) error {
	_ = p.register(fd, unix.EVFILT_READ, unix.EV_DELETE)
	_ = p.register(fd, unix.EVFILT_WRITE, unix.EV_DELETE)
	return nil
}

func (p *poller) register(fd int, filter int16, flags uint16) error {
	changes := []unix.Kevent_t{{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}}
	_, err := unix.Kevent(p.fd, changes, nil, nil)
	return err
}

func (p *poller) wait() ([]readyEvent, error) {
	n, err := unix.Kevent(p.fd, nil, p.events, nil)
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
			fd:       int(e.Ident),
			readable: e.Filter == unix.EVFILT_READ,
			writable: e.Filter == unix.EVFILT_WRITE,
			hangup:   e.Flags&unix.EV_EOF != 0,
		})
	}
	return out, nil
}
