package responder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// Delete answers DELETE: the target is
// <upload_path>/<url-with-location-prefix-stripped>; missing -> 404,
// successful unlink -> 200, any other failure -> 500.
func Delete(server *config.ServerConfig, loc *config.LocationConfig, urlPath string) *wire.Response {
	if loc.UploadPath == "" {
		return ErrorPage(server, server.ServerName, 500)
	}

	uploadPath := loc.UploadPath
	if !filepath.IsAbs(uploadPath) {
		wd, err := os.Getwd()
		if err == nil {
			uploadPath = filepath.Join(wd, uploadPath)
		}
	}

	rel := strings.TrimPrefix(urlPath, loc.Path)
	target := filepath.Join(uploadPath, rel)

	if _, err := os.Stat(target); err != nil {
		return ErrorPage(server, server.ServerName, 404)
	}

	if err := os.Remove(target); err != nil {
		return ErrorPage(server, server.ServerName, 500)
	}

	body := "<html><body><h1>File deleted successfully!</h1></body></html>"
	r := wire.NewResponse(200)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", server.ServerName)
	r.Body = []byte(body)
	return r
}
