package cgi

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "script.sh")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecuteSplicesHeadersAndBody(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "#!/bin/sh\nprintf 'Content-Type: text/plain\\r\\n\\r\\nhello from cgi'\n")

	server := &config.ServerConfig{ServerName: "x", ListenPort: 8080}
	loc := &config.LocationConfig{Path: "/cgi-bin", Root: dir}
	req := &wire.Request{Method: "GET", Path: "/cgi-bin/script.sh", Header: wire.NewHeader()}

	resp := Execute(server, loc, req, "/bin/sh", "127.0.0.1")
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Body) != "hello from cgi" {
		t.Fatalf("Body = %q", resp.Body)
	}
	if resp.Header.Get("Content-Type") != "text/plain" {
		t.Fatalf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
}

func TestExecuteNoHeaderBlockSynthesizesOne(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "#!/bin/sh\nprintf 'just body, no headers'\n")

	server := &config.ServerConfig{ServerName: "x", ListenPort: 8080}
	loc := &config.LocationConfig{Path: "/cgi-bin", Root: dir}
	req := &wire.Request{Method: "GET", Path: "/cgi-bin/script.sh", Header: wire.NewHeader()}

	resp := Execute(server, loc, req, "/bin/sh", "127.0.0.1")
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if !strings.Contains(string(resp.Body), "just body") {
		t.Fatalf("Body = %q", resp.Body)
	}
	if resp.Header.Get("Content-Type") != "text/html" {
		t.Fatalf("expected synthesized Content-Type, got %q", resp.Header.Get("Content-Type"))
	}
}

func TestExecuteNonZeroExitIs500(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "#!/bin/sh\nexit 1\n")

	server := &config.ServerConfig{ServerName: "x", ListenPort: 8080}
	loc := &config.LocationConfig{Path: "/cgi-bin", Root: dir}
	req := &wire.Request{Method: "GET", Path: "/cgi-bin/script.sh", Header: wire.NewHeader()}

	resp := Execute(server, loc, req, "/bin/sh", "127.0.0.1")
	if resp.Status != 500 {
		t.Fatalf("Status = %d, want 500", resp.Status)
	}
}

func TestExecuteReceivesBodyOnStdin(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "#!/bin/sh\nread line\nprintf 'Content-Type: text/plain\\r\\n\\r\\ngot: %s' \"$line\"\n")

	server := &config.ServerConfig{ServerName: "x", ListenPort: 8080}
	loc := &config.LocationConfig{Path: "/cgi-bin", Root: dir}
	req := &wire.Request{Method: "POST", Path: "/cgi-bin/script.sh", Header: wire.NewHeader(), Body: []byte("payload\n")}

	resp := Execute(server, loc, req, "/bin/sh", "127.0.0.1")
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Body) != "got: payload" {
		t.Fatalf("Body = %q", resp.Body)
	}
}

// TestExecuteTimeoutReturns504AndKillsChild runs a script that outlives
// Timeout and checks both ends of the contract: the caller gets a 504
// instead of blocking for the full sleep, and the child is actually killed
// rather than left running as an orphan. "exec sleep" replaces the shell
// with sleep itself, so the pid written to the file names the process that
// must disappear once Execute returns.
func TestExecuteTimeoutReturns504AndKillsChild(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "pid")
	writeScript(t, dir, "#!/bin/sh\necho $$ > "+pidFile+"\nexec sleep 10\n")

	server := &config.ServerConfig{ServerName: "x", ListenPort: 8080}
	loc := &config.LocationConfig{Path: "/cgi-bin", Root: dir}
	req := &wire.Request{Method: "GET", Path: "/cgi-bin/script.sh", Header: wire.NewHeader()}

	start := time.Now()
	resp := Execute(server, loc, req, "/bin/sh", "127.0.0.1")
	elapsed := time.Since(start)

	if resp.Status != 504 {
		t.Fatalf("Status = %d, want 504", resp.Status)
	}
	if elapsed >= 10*time.Second {
		t.Fatalf("Execute took %v, want well under the script's 10s sleep", elapsed)
	}

	pidBytes, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("reading pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(pidBytes)))
	if err != nil {
		t.Fatalf("parsing pid %q: %v", pidBytes, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := unix.Kill(pid, 0); err == unix.ESRCH {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("pid %d still alive 2s after the CGI timeout; child was not reaped", pid)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
