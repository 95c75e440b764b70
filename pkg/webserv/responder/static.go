package responder

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// hasExtension matches the "URL contains a file extension" test used to
// decide whether a path names a file or a directory.
var hasExtension = regexp.MustCompile(`\.[A-Za-z0-9]+$`)

// ServeFile answers GET/HEAD: resolve the request path under
// location.root, serve the file, fall back to an autoindex listing for
// directories, or 404.
func ServeFile(server *config.ServerConfig, loc *config.LocationConfig, urlPath, host string, port int, method string) *wire.Response {
	filePath := resolveFilePath(loc, urlPath)

	info, err := os.Stat(filePath)
	if err != nil {
		if loc.Autoindex {
			if dirInfo, derr := os.Stat(dirPathFor(loc, urlPath)); derr == nil && dirInfo.IsDir() {
				return autoindex(dirPathFor(loc, urlPath), urlPath, host, port, server.ServerName)
			}
		}
		return ErrorPage(server, server.ServerName, 404)
	}

	if info.IsDir() {
		if loc.Autoindex {
			return autoindex(filePath, urlPath, host, port, server.ServerName)
		}
		return ErrorPage(server, server.ServerName, 404)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return ErrorPage(server, server.ServerName, 404)
	}

	r := wire.NewResponse(200)
	r.Header.Set("Content-Type", wire.ContentTypeForExt(filepath.Ext(filePath)))
	r.Header.Set("Server", server.ServerName)
	r.Body = content
	if method == wire.MethodHEAD {
		r.NoBody = true
	}
	return r
}

// resolveFilePath computes filePath: URLs with a file extension append
// directly to root; otherwise the URL is treated as a directory and
// location.index is appended.
func resolveFilePath(loc *config.LocationConfig, urlPath string) string {
	if hasExtension.MatchString(urlPath) {
		return filepath.Join(loc.Root, urlPath)
	}
	return filepath.Join(loc.Root, urlPath, loc.Index)
}

// dirPathFor is resolveFilePath's directory-only half, used when the
// indexed file is absent but autoindex should still see the directory.
func dirPathFor(loc *config.LocationConfig, urlPath string) string {
	return filepath.Join(loc.Root, urlPath)
}

// autoindex renders the directory listing. It reads entry names via
// Readdirnames rather than os.ReadDir, which sorts: entries are listed in
// the order the directory returns them, unsorted.
func autoindex(dirPath, urlPath, host string, port int, serverName string) *wire.Response {
	f, err := os.Open(dirPath)
	if err != nil {
		r := wire.NewResponse(404)
		r.Header.Set("Server", serverName)
		return r
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	if err != nil {
		r := wire.NewResponse(404)
		r.Header.Set("Server", serverName)
		return r
	}

	var b strings.Builder
	b.WriteString("<html><head><title>Directory Listing</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>Index of %s</h1>\n<ul>\n", urlPath)
	base := strings.TrimSuffix(urlPath, "/")

	// os.Readdirnames never returns "." or "..": render ".." ourselves so a
	// listing still links to its parent directory.
	fmt.Fprintf(&b, "  <li><a href=\"http://%s:%d%s/..\">..</a></li>\n", host, port, base)
	for _, name := range names {
		if name == "." {
			continue
		}
		fmt.Fprintf(&b, "  <li><a href=\"http://%s:%d%s/%s\">%s</a></li>\n", host, port, base, name, name)
	}
	b.WriteString("</ul></body></html>\n")

	r := wire.NewResponse(200)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", serverName)
	r.Body = []byte(b.String())
	return r
}
