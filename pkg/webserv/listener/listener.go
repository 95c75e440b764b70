// Package listener builds the Listener set: one non-blocking socket per
// distinct (listen_host, listen_port), each owning the ordered ServerConfigs
// that share it. Built against raw descriptors (golang.org/x/sys/unix)
// instead of net.Conn since the event loop (pkg/webserv/eventloop) registers
// listeners by file descriptor directly with epoll/kqueue.
package listener

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/yourusername/webserv/pkg/webserv/config"
)

// Backlog is the minimum listen() backlog the server requires.
const Backlog = 1024

// Listener is one bound, non-blocking listening socket shared by every
// ServerConfig with the same (host, port). Servers[0] is the default vhost
// for this endpoint.
type Listener struct {
	FD      int
	Host    string
	Port    int
	Servers []config.ServerConfig
}

// Build groups servers by (listen_host, listen_port), preserving input
// order so the first ServerConfig for an endpoint becomes its default vhost,
// then binds and listens on one socket per group. Validation (duplicate
// vhosts, bad IPv4 literals) must already have run via config.Validate;
// Build assumes servers is well-formed.
func Build(servers []config.ServerConfig) ([]*Listener, error) {
	order := make([]string, 0, len(servers))
	groups := make(map[string][]config.ServerConfig, len(servers))
	for _, s := range servers {
		key := fmt.Sprintf("%s:%d", s.ListenHost, s.ListenPort)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	listeners := make([]*Listener, 0, len(order))
	for _, key := range order {
		group := groups[key]
		ln, err := bind(group[0].ListenHost, group[0].ListenPort, group)
		if err != nil {
			for _, l := range listeners {
				_ = unix.Close(l.FD)
			}
			return nil, err
		}
		listeners = append(listeners, ln)
	}
	return listeners, nil
}

func bind(host string, port int, servers []config.ServerConfig) (*Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("listener: socket(%s:%d): %w", host, port, err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listener: SO_REUSEADDR %s:%d: %w", host, port, err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listener: set non-blocking %s:%d: %w", host, port, err)
	}

	addr, err := ipv4Addr(host, port)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listener: %w", err)
	}

	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listener: bind %s:%d: %w", host, port, err)
	}

	if err := unix.Listen(fd, Backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listener: listen %s:%d: %w", host, port, err)
	}

	return &Listener{FD: fd, Host: host, Port: port, Servers: servers}, nil
}

// ipv4Addr parses host the same way config.Validate already has (net.ParseIP
// plus To4) so the two packages can never disagree about what counts as a
// valid IPv4 literal; config.Validate runs before Build, so the error path
// here is unreachable in practice and only guards against Build being called
// directly with unvalidated input.
func ipv4Addr(host string, port int) (*unix.SockaddrInet4, error) {
	ip := net.ParseIP(host)
	v4 := ip.To4()
	if v4 == nil {
		return nil, fmt.Errorf("invalid IPv4 literal %q", host)
	}
	var octets [4]byte
	copy(octets[:], v4)
	return &unix.SockaddrInet4{Port: port, Addr: octets}, nil
}

// Close releases the listening socket.
func (l *Listener) Close() error {
	return unix.Close(l.FD)
}

// Default returns the default vhost for this listener: the first
// ServerConfig entry for its (host, port) group.
func (l *Listener) Default() *config.ServerConfig {
	return &l.Servers[0]
}
