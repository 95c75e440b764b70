package responder

import (
	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// Redirect builds the response for a configured redirect location: Location
// header, empty body, status return_code. The reason phrase comes from
// wire.StatusText: 301/302/307/308 get their own phrase, other 3xx codes get
// "Redirect", and codes outside 3xx get their table phrase or "Error".
func Redirect(server *config.ServerConfig, loc *config.LocationConfig) *wire.Response {
	r := wire.NewResponse(loc.ReturnCode)
	r.Header.Set("Location", loc.Redirection)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Content-Length", "0")
	r.Header.Set("Server", server.ServerName)
	r.Body = nil
	return r
}

// NormalizationRedirect builds the 301 issued when trailing slashes were
// stripped from the request target: the client is sent to the normalized
// target instead of being served directly, so a bookmark or relative link
// built from the response always resolves against the canonical form.
func NormalizationRedirect(server *config.ServerConfig, target string) *wire.Response {
	r := wire.NewResponse(301)
	r.Header.Set("Location", target)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Content-Length", "0")
	r.Header.Set("Server", server.ServerName)
	r.Body = nil
	return r
}
