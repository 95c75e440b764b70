// Package responder turns a routed (ServerConfig, LocationConfig, Request)
// into a wire.Response: static files and autoindex for GET/HEAD,
// body-handling branches for POST, file removal for DELETE, redirects, and
// error pages.
package responder

import (
	"fmt"
	"os"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// ErrorPage builds the response for a failure status: a custom page from
// the server's error_pages map when one is configured and readable, else a
// built-in template naming the code.
func ErrorPage(server *config.ServerConfig, serverName string, code int) *wire.Response {
	if server != nil {
		if path, ok := server.ErrorPage(code); ok {
			if content, err := os.ReadFile(path); err == nil {
				r := wire.NewResponse(code)
				r.Header.Set("Content-Type", "text/html")
				r.Header.Set("Server", serverName)
				r.Body = content
				return r
			}
		}
	}

	body := fmt.Sprintf(errorTemplate, code, code)
	r := wire.NewResponse(code)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", serverName)
	r.Body = []byte(body)
	return r
}

const errorTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Error %d</title></head>
<body>
<h1>Error %d</h1>
<h2>Something went wrong</h2>
<p>We're sorry, but the page you requested cannot be found or is not accessible.</p>
<p>Please check the URL or return to the <a href="/">home page</a>.</p>
</body>
</html>
`
