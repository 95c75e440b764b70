package wire

import "testing"

func TestParseHeadBasic(t *testing.T) {
	head := "GET /index.html HTTP/1.1\r\nHost: example.com:8080\r\nAccept: */*\r\n"
	req, err := ParseHead([]byte(head))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if req.Method != "GET" || req.Path != "/index.html" {
		t.Fatalf("unexpected method/path: %q %q", req.Method, req.Path)
	}
	if req.HostPart() != "example.com" {
		t.Fatalf("HostPart = %q, want example.com", req.HostPart())
	}
	if req.ContentLength != -1 || req.Chunked {
		t.Fatalf("expected no body framing, got cl=%d chunked=%v", req.ContentLength, req.Chunked)
	}
}

func TestParseHeadContentLength(t *testing.T) {
	head := "POST /upload HTTP/1.1\r\nHost: x\r\nContent-Length: 42\r\n"
	req, err := ParseHead([]byte(head))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if req.ContentLength != 42 {
		t.Fatalf("ContentLength = %d, want 42", req.ContentLength)
	}
}

func TestParseHeadChunkedWinsOverContentLength(t *testing.T) {
	head := "POST /upload HTTP/1.1\r\nHost: x\r\nTransfer-Encoding: chunked\r\nContent-Length: 5\r\n"
	req, err := ParseHead([]byte(head))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if !req.Chunked {
		t.Fatal("expected chunked framing to win")
	}
}

func TestParseHeadMalformedContentLength(t *testing.T) {
	head := "POST /upload HTTP/1.1\r\nHost: x\r\nContent-Length: notanumber\r\n"
	if _, err := ParseHead([]byte(head)); err == nil {
		t.Fatal("expected error for malformed Content-Length")
	}
}

func TestParseHeadRejectsMissingTarget(t *testing.T) {
	if _, err := ParseHead([]byte("GET\r\n")); err == nil {
		t.Fatal("expected error for missing target")
	}
}

func TestParseHeadCaseInsensitiveLastWins(t *testing.T) {
	head := "GET / HTTP/1.1\r\nhost: first\r\nHOST: second\r\n"
	req, err := ParseHead([]byte(head))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if req.Header.Get("hOsT") != "second" {
		t.Fatalf("Get = %q, want last-wins value %q", req.Header.Get("Host"), "second")
	}
}

// TestURLNormalizationIdempotent is spec.md P7: stripping trailing slashes
// and re-issuing to the normalized form does not require further normalization.
func TestURLNormalizationIdempotent(t *testing.T) {
	head := "GET /foo/// HTTP/1.1\r\nHost: x\r\n"
	req, err := ParseHead([]byte(head))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if !req.Normalized || req.Target != "/foo" {
		t.Fatalf("got target %q normalized=%v, want /foo normalized=true", req.Target, req.Normalized)
	}

	head2 := "GET /foo HTTP/1.1\r\nHost: x\r\n"
	req2, err := ParseHead([]byte(head2))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if req2.Normalized {
		t.Fatal("already-normalized URL should not be flagged again")
	}
}

func TestURLNormalizationPreservesRoot(t *testing.T) {
	req, err := ParseHead([]byte("GET / HTTP/1.1\r\nHost: x\r\n"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if req.Normalized || req.Target != "/" {
		t.Fatalf("root target must never be stripped, got %q normalized=%v", req.Target, req.Normalized)
	}
}

func TestParseHeadRejectsPathTraversal(t *testing.T) {
	_, err := ParseHead([]byte("GET /files/../secret HTTP/1.1\r\nHost: x\r\n"))
	if err != ErrPathTraversal {
		t.Fatalf("err = %v, want ErrPathTraversal", err)
	}
}

func TestURLNormalizationPreservesQuery(t *testing.T) {
	req, err := ParseHead([]byte("GET /foo/?a=1 HTTP/1.1\r\nHost: x\r\n"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if req.Target != "/foo?a=1" {
		t.Fatalf("got %q, want /foo?a=1", req.Target)
	}
}
