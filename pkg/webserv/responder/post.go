package responder

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// Post answers POST for non-CGI locations: branch on a normalized
// Content-Type, 415 for anything unrecognized. The client_max_body_size
// check already ran in pkg/webserv/conn before the Responder is ever
// invoked, so Post only handles the body.
func Post(server *config.ServerConfig, loc *config.LocationConfig, req *wire.Request) *wire.Response {
	contentType := strings.TrimSpace(req.Header.Get("Content-Type"))
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(contentType)
	} else {
		mediaType = strings.ToLower(mediaType)
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		return postURLEncoded(server, req.Body)
	case mediaType == "multipart/form-data":
		return postMultipart(server, loc, req.Body, params["boundary"])
	case mediaType == "text/plain" || mediaType == "application/json":
		return postEcho(server, req.Body)
	default:
		return ErrorPage(server, server.ServerName, 415)
	}
}

func postURLEncoded(server *config.ServerConfig, body []byte) *wire.Response {
	values, _ := url.ParseQuery(string(body))
	var b strings.Builder
	b.WriteString("<html><body><h1>Form received</h1><ul>\n")
	for k, vs := range values {
		for _, v := range vs {
			fmt.Fprintf(&b, "<li>%s = %s</li>\n", k, v)
		}
	}
	b.WriteString("</ul></body></html>")

	r := wire.NewResponse(200)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", server.ServerName)
	r.Body = []byte(b.String())
	return r
}

// postMultipart writes every part carrying a "filename=" disposition
// parameter to <upload_path>/<filename>. upload_path is resolved to
// absolute via the current working directory when relative.
func postMultipart(server *config.ServerConfig, loc *config.LocationConfig, body []byte, boundary string) *wire.Response {
	if boundary == "" {
		return ErrorPage(server, server.ServerName, 415)
	}

	uploadDir := loc.UploadPath
	if !filepath.IsAbs(uploadDir) {
		if wd, err := os.Getwd(); err == nil {
			uploadDir = filepath.Join(wd, uploadDir)
		}
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ErrorPage(server, server.ServerName, 500)
		}

		filename := part.FileName()
		if filename == "" {
			part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return ErrorPage(server, server.ServerName, 500)
		}

		if err := os.WriteFile(filepath.Join(uploadDir, filename), data, 0o644); err != nil {
			return ErrorPage(server, server.ServerName, 500)
		}
	}

	body2 := "<html><body><h1>File uploaded successfully!</h1></body></html>"
	r := wire.NewResponse(200)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", server.ServerName)
	r.Body = []byte(body2)
	return r
}

func postEcho(server *config.ServerConfig, body []byte) *wire.Response {
	escaped := strings.ReplaceAll(string(body), "<", "&lt;")
	html := fmt.Sprintf("<html><body><h1>Received</h1><pre>%s</pre></body></html>", escaped)
	r := wire.NewResponse(200)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", server.ServerName)
	r.Body = []byte(html)
	return r
}
