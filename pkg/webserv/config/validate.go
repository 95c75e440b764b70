package config

import (
	"fmt"
	"net"
)

// Validate enforces the startup invariants: every (listen_host, listen_port)
// pair may be shared by several ServerConfigs,
// but not by two that also share server_name (including both empty), and
// every listen_host must be a valid IPv4 literal.
func Validate(servers []ServerConfig) error {
	type key struct {
		host, serverName string
		port             int
	}
	seen := make(map[key]bool, len(servers))

	for _, s := range servers {
		if !isIPv4Literal(s.ListenHost) {
			return fmt.Errorf("config: invalid IPv4 listen_host %q", s.ListenHost)
		}
		if s.ListenPort < 1 || s.ListenPort > 65535 {
			return fmt.Errorf("config: listen_port %d out of range", s.ListenPort)
		}

		k := key{host: s.ListenHost, port: s.ListenPort, serverName: s.ServerName}
		if seen[k] {
			return fmt.Errorf("config: duplicate server block for %s:%d server_name=%q",
				s.ListenHost, s.ListenPort, s.ServerName)
		}
		seen[k] = true
	}
	return nil
}

func isIPv4Literal(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() != nil
}
