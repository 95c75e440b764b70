package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Load reads and validates a JSON config file, returning the fully resolved
// list of ServerConfig blocks. It is the only entry point the CLI needs.
func Load(path string) ([]ServerConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	for i := range doc.Servers {
		if err := resolve(&doc.Servers[i]); err != nil {
			return nil, fmt.Errorf("config: server[%d]: %w", i, err)
		}
	}

	if err := Validate(doc.Servers); err != nil {
		return nil, err
	}

	return doc.Servers, nil
}

// resolve fills in derived fields (max body size in bytes) and validates
// each location once at load time so the engine never re-parses the raw
// JSON fields on the request path.
func resolve(s *ServerConfig) error {
	size, err := ParseSize(s.ClientMaxBodySize)
	if err != nil {
		return fmt.Errorf("client_max_body_size %q: %w", s.ClientMaxBodySize, err)
	}
	s.maxBodyBytes = size

	for i := range s.Locations {
		loc := &s.Locations[i]
		if loc.Path == "" || loc.Path[0] != '/' {
			return fmt.Errorf("location path %q must start with \"/\"", loc.Path)
		}
		if len(loc.CGIExtension) != len(loc.CGIPath) {
			return fmt.Errorf("location %q: cgi_extension and cgi_path must be parallel lists", loc.Path)
		}
	}
	return nil
}
