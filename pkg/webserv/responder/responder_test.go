package responder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/wire"
)

func TestServeFileReadsIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Root: dir, Index: "index.html"}

	resp := ServeFile(server, loc, "/", "x", 8080, wire.MethodGET)
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Body) != "<h1>hi</h1>" {
		t.Fatalf("Body = %q", resp.Body)
	}
}

func TestServeFileHeadOmitsBody(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Root: dir}

	resp := ServeFile(server, loc, "/a.css", "x", 8080, wire.MethodHEAD)
	if !resp.NoBody {
		t.Fatal("expected NoBody for HEAD")
	}
	out := string(resp.Bytes())
	if strings.Contains(out, "body{}") {
		t.Fatalf("HEAD response leaked body bytes: %q", out)
	}
	if !strings.Contains(out, "Content-Type: text/css") {
		t.Fatalf("missing content type: %q", out)
	}
}

func TestServeFileMissingIs404(t *testing.T) {
	dir := t.TempDir()
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Root: dir, Index: "index.html"}

	resp := ServeFile(server, loc, "/", "x", 8080, wire.MethodGET)
	if resp.Status != 404 {
		t.Fatalf("Status = %d, want 404", resp.Status)
	}
}

func TestServeFileAutoindexListsEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Root: dir, Index: "index.html", Autoindex: true}

	resp := ServeFile(server, loc, "/", "x", 8080, wire.MethodGET)
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if !strings.Contains(string(resp.Body), "a.txt") {
		t.Fatalf("autoindex body missing entry: %q", resp.Body)
	}
	if !strings.Contains(string(resp.Body), `href="http://x:8080/..">..</a>`) {
		t.Fatalf("autoindex body missing parent link: %q", resp.Body)
	}
}

func TestDeleteMissingFileIs404(t *testing.T) {
	dir := t.TempDir()
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Path: "/files", UploadPath: dir}

	resp := Delete(server, loc, "/files/nope.txt")
	if resp.Status != 404 {
		t.Fatalf("Status = %d, want 404", resp.Status)
	}
}

func TestDeleteRemovesExistingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "gone.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Path: "/files", UploadPath: dir}

	resp := Delete(server, loc, "/files/gone.txt")
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}
}

func TestPostURLEncodedAcknowledges(t *testing.T) {
	server := &config.ServerConfig{ServerName: "x"}
	req := &wire.Request{Header: wire.NewHeader(), Body: []byte("a=1&b=2")}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := Post(server, &config.LocationConfig{}, req)
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
}

func TestPostUnknownContentTypeIs415(t *testing.T) {
	server := &config.ServerConfig{ServerName: "x"}
	req := &wire.Request{Header: wire.NewHeader(), Body: []byte("x")}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp := Post(server, &config.LocationConfig{}, req)
	if resp.Status != 415 {
		t.Fatalf("Status = %d, want 415", resp.Status)
	}
}

func TestRedirectEmitsLocationHeader(t *testing.T) {
	server := &config.ServerConfig{ServerName: "x"}
	loc := &config.LocationConfig{Redirection: "/new", ReturnCode: 301}

	resp := Redirect(server, loc)
	out := string(resp.Bytes())
	if !strings.Contains(out, "Location: /new\r\n") {
		t.Fatalf("missing Location header: %q", out)
	}
	if !strings.Contains(out, "Content-Length: 0\r\n") {
		t.Fatalf("expected empty body length: %q", out)
	}
}

func TestErrorPageCustomOverride(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "404.html")
	if err := os.WriteFile(custom, []byte("<p>missing</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	server := &config.ServerConfig{ServerName: "x", ErrorPages: map[string]string{"404": custom}}

	resp := ErrorPage(server, "x", 404)
	if string(resp.Body) != "<p>missing</p>" {
		t.Fatalf("expected custom error page body, got %q", resp.Body)
	}
}

func TestErrorPageBuiltinFallback(t *testing.T) {
	server := &config.ServerConfig{ServerName: "x"}
	resp := ErrorPage(server, "x", 500)
	if !strings.Contains(string(resp.Body), "Error 500") {
		t.Fatalf("expected built-in template naming the code, got %q", resp.Body)
	}
}
