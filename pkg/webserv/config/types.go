// Package config models the JSON-configured server tree: a list of
// ServerConfig blocks, each owning an ordered list of LocationConfig rules.
// Values are immutable once Load returns.
package config

import "strconv"

// LocationConfig is one routing rule within a ServerConfig. Path must begin
// with "/"; CGIExtension and CGIPath are parallel (same
// length, index-matched).
type LocationConfig struct {
	Path         string   `json:"path"`
	Methods      []string `json:"methods"`
	Redirection  string   `json:"redirection"`
	ReturnCode   int      `json:"return_code"`
	Root         string   `json:"root"`
	Index        string   `json:"index"`
	Autoindex    bool     `json:"autoindex"`
	UploadPath   string   `json:"upload_path"`
	CGIExtension []string `json:"cgi_extension"`
	CGIPath      []string `json:"cgi_path"`
}

// AllowsMethod reports whether method is permitted by this location. An
// empty Methods list allows any method. Location method lists
// are short (a handful of verbs), so a linear scan needs no index.
func (l *LocationConfig) AllowsMethod(method string) bool {
	if len(l.Methods) == 0 {
		return true
	}
	for _, m := range l.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// HasRedirect reports whether this location is configured as a redirect.
func (l *LocationConfig) HasRedirect() bool {
	return l.Redirection != "" && l.ReturnCode != 0
}

// CGIInterpreter returns the interpreter path registered for the given
// extension (e.g. ".py"), and whether a match was found.
func (l *LocationConfig) CGIInterpreter(ext string) (string, bool) {
	for i, e := range l.CGIExtension {
		if e == ext && i < len(l.CGIPath) {
			return l.CGIPath[i], true
		}
	}
	return "", false
}

// ServerConfig is one virtual host definition.
type ServerConfig struct {
	ListenHost        string            `json:"listen_host"`
	ListenPort        int               `json:"listen_port"`
	ServerName        string            `json:"server_name"`
	ClientMaxBodySize string            `json:"client_max_body_size"`
	ErrorPages        map[string]string `json:"error_pages"`
	Locations         []LocationConfig  `json:"locations"`

	maxBodyBytes int64
}

// MaxBodyBytes returns the parsed client_max_body_size in bytes, resolved
// by Load (through resolve) via the grammar in size.go.
func (s *ServerConfig) MaxBodyBytes() int64 {
	return s.maxBodyBytes
}

// SetMaxBodyBytesForTest sets the resolved body cap directly, for packages
// that need a ServerConfig without round-tripping it through Load.
func (s *ServerConfig) SetMaxBodyBytesForTest(n int64) {
	s.maxBodyBytes = n
}

// ErrorPage returns the configured error page path for a status code, if any.
func (s *ServerConfig) ErrorPage(code int) (string, bool) {
	p, ok := s.ErrorPages[strconv.Itoa(code)]
	return p, ok
}

// Document is the top-level JSON shape.
type Document struct {
	Servers []ServerConfig `json:"servers"`
}
