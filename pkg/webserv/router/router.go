// Package router implements virtual-host selection and location matching.
// It is pure: given a Listener and a parsed request it returns the
// ServerConfig/LocationConfig pair the Responder should run against, or a
// terminal status code (404 when no location matches, 405 from the method
// gate, or a redirect already resolved) when routing ends before dispatch.
package router

import (
	"strings"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/listener"
)

// Decision is the outcome of routing one request.
type Decision struct {
	Server   *config.ServerConfig
	Location *config.LocationConfig

	// StatusCode is non-zero when routing already determined the final
	// response status (404 no location, 405 method gate, or a configured
	// redirect) and the
	// Responder's normal dispatch should be skipped.
	StatusCode int
}

// Route selects a vhost, matches a location, and gates on method and
// redirect against l's ServerConfigs.
func Route(l *listener.Listener, host, method, urlPath string, connPort int) Decision {
	server := selectVHost(l, host, connPort)
	loc := matchLocation(server, urlPath)

	if loc == nil {
		return Decision{Server: server, StatusCode: 404}
	}

	if !loc.AllowsMethod(method) {
		return Decision{Server: server, Location: loc, StatusCode: 405}
	}

	if loc.HasRedirect() {
		return Decision{Server: server, Location: loc, StatusCode: loc.ReturnCode}
	}

	return Decision{Server: server, Location: loc}
}

// selectVHost picks a vhost: exact server_name+port match, falling back to
// any config on this port, falling back to the listener's default (its
// first ServerConfig).
func selectVHost(l *listener.Listener, host string, connPort int) *config.ServerConfig {
	for i := range l.Servers {
		s := &l.Servers[i]
		if s.ServerName == host && s.ListenPort == connPort {
			return s
		}
	}
	for i := range l.Servers {
		s := &l.Servers[i]
		if s.ListenPort == connPort {
			return s
		}
	}
	return l.Default()
}

// matchLocation does a longest-prefix match over the server's locations,
// falling back to "/" when present.
func matchLocation(s *config.ServerConfig, urlPath string) *config.LocationConfig {
	var best *config.LocationConfig
	bestLen := -1
	var root *config.LocationConfig

	for i := range s.Locations {
		loc := &s.Locations[i]
		if loc.Path == "/" {
			root = loc
		}
		if strings.HasPrefix(urlPath, loc.Path) && len(loc.Path) > bestLen {
			best, bestLen = loc, len(loc.Path)
		}
	}

	if best != nil {
		return best
	}
	return root
}
