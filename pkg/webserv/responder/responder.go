package responder

import (
	"path/filepath"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// Respond dispatches a routed request to the method-specific handler.
// Callers must check MatchesCGI first and route matching requests to the
// cgi package instead; Respond only ever handles the
// static-file/upload/delete paths.
func Respond(server *config.ServerConfig, loc *config.LocationConfig, req *wire.Request, host string, port int) *wire.Response {
	switch req.Method {
	case wire.MethodGET, wire.MethodHEAD:
		return ServeFile(server, loc, req.Path, host, port, req.Method)
	case wire.MethodPOST:
		return Post(server, loc, req)
	case wire.MethodDELETE:
		return Delete(server, loc, req.Path)
	default:
		return ErrorPage(server, server.ServerName, 405)
	}
}

// MatchesCGI reports whether the request URL's extension is one of the
// location's configured CGI extensions, and returns the interpreter to run.
func MatchesCGI(loc *config.LocationConfig, urlPath string) (string, bool) {
	ext := filepath.Ext(urlPath)
	if ext == "" {
		return "", false
	}
	return loc.CGIInterpreter(ext)
}
