// Package cgi implements the CGI/1.1 adapter: a script matched by its
// location's cgi_extension list runs as a child process, the request body
// is piped to its stdin, and its stdout is spliced back into an HTTP
// response. The child's stdout and stderr pipes are drained concurrently
// with golang.org/x/sync/errgroup while the parent writes the request body
// to stdin, so a large response body and a chatty stderr stream can't
// deadlock each other against a bounded pipe buffer.
package cgi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

// Timeout is the wall-clock limit on a CGI child. A script that runs longer
// is killed and the request fails with 504 rather than tying up the one
// event loop thread indefinitely.
const Timeout = 3 * time.Second

// Execute runs the interpreter against the script matched by loc, feeding
// it req's body and a CGI/1.1 environment, and returns the spliced HTTP
// response.
func Execute(server *config.ServerConfig, loc *config.LocationConfig, req *wire.Request, interpreter, remoteAddr string) *wire.Response {
	scriptRel := strings.TrimPrefix(req.Path, loc.Path)
	scriptRel = strings.TrimPrefix(scriptRel, "/")
	scriptPath := filepath.Join(loc.Root, scriptRel)

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, interpreter, scriptPath)
	cmd.Dir = filepath.Dir(scriptPath)
	cmd.Env = buildEnv(req, loc, server, scriptRel, remoteAddr)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errorResponse(server, 500)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errorResponse(server, 500)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errorResponse(server, 500)
	}

	if err := cmd.Start(); err != nil {
		return errorResponse(server, 500)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})

	if len(req.Body) > 0 {
		_, _ = stdin.Write(req.Body)
	}
	stdin.Close()

	_ = g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		return errorResponse(server, 504)
	}
	if waitErr != nil {
		return errorResponse(server, 500)
	}

	return splice(server, outBuf.Bytes())
}

// buildEnv assembles the CGI/1.1 environment variables a script expects.
func buildEnv(req *wire.Request, loc *config.LocationConfig, server *config.ServerConfig, scriptRel, remoteAddr string) []string {
	contentType := req.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/x-www-form-urlencoded"
	}
	return []string{
		"REQUEST_METHOD=" + req.Method,
		"CONTENT_LENGTH=" + strconv.Itoa(len(req.Body)),
		"SCRIPT_NAME=" + scriptRel,
		"QUERY_STRING=" + req.Query,
		"CONTENT_TYPE=" + contentType,
		"PATH_INFO=" + req.Path,
		"SERVER_PROTOCOL=" + wire.Proto11,
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_SOFTWARE=webserv",
		"SERVER_NAME=" + server.ServerName,
		"SERVER_PORT=" + strconv.Itoa(server.ListenPort),
		"REMOTE_ADDR=" + remoteAddr,
	}
}

// splice locates the "\r\n\r\n" header/body boundary CGI scripts emit,
// prepending a 200 status line, or synthesizes one when the script never
// wrote a header block.
func splice(server *config.ServerConfig, out []byte) *wire.Response {
	idx := bytes.Index(out, []byte("\r\n\r\n"))
	r := wire.NewResponse(200)
	r.Header.Set("Server", server.ServerName)
	if idx == -1 {
		r.Header.Set("Content-Type", "text/html")
		r.Body = out
		return r
	}

	headerBlock, body := out[:idx], out[idx+4:]
	for _, line := range strings.Split(string(headerBlock), "\r\n") {
		if colon := strings.IndexByte(line, ':'); colon > 0 {
			r.Header.Set(strings.TrimSpace(line[:colon]), strings.TrimSpace(line[colon+1:]))
		}
	}
	r.Body = body
	return r
}

func errorResponse(server *config.ServerConfig, code int) *wire.Response {
	r := wire.NewResponse(code)
	r.Header.Set("Content-Type", "text/html")
	r.Header.Set("Server", server.ServerName)
	r.Body = []byte(fmt.Sprintf("<html><body><h1>CGI error %d</h1></body></html>", code))
	return r
}
