package wire

import (
	"strconv"
	"strings"
)

// Request is a fully parsed request: produced once framing completes,
// valid until the response is buffered.
type Request struct {
	Method   string
	Target   string // raw request-target, including any query string
	Path     string // Target with the query string stripped
	Query    string
	Version  string
	Header   Header
	Body     []byte

	// ContentLength is -1 when neither Content-Length nor
	// Transfer-Encoding: chunked was present; the body is then empty.
	ContentLength int64
	Chunked       bool

	// Normalized is true when URL normalization (trailing-slash stripping)
	// changed Target from what the client sent.
	Normalized bool
}

// ParseHead parses the request line and header block out of head, which
// must be the bytes up to (not including) the terminating "\r\n\r\n". It
// derives ContentLength and Chunked, but does not touch the body; the Host
// header's host part is computed on demand by HostPart.
func ParseHead(head []byte) (*Request, error) {
	text := string(head)
	lineEnd := strings.Index(text, "\r\n")
	if lineEnd == -1 {
		lineEnd = len(text)
	}
	reqLine := text[:lineEnd]
	rest := ""
	if lineEnd+2 <= len(text) {
		rest = text[lineEnd+2:]
	}

	method, target, version, err := parseRequestLine(reqLine)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:        method,
		Target:        target,
		Version:       version,
		Header:        NewHeader(),
		ContentLength: -1,
	}
	normalizeURL(req)
	splitPathQuery(req)
	if hasDotDotSegment(req.Path) {
		return nil, ErrPathTraversal
	}

	if err := parseHeaderLines(rest, req.Header); err != nil {
		return nil, err
	}

	if err := resolveFraming(req); err != nil {
		return nil, err
	}

	return req, nil
}

// parseRequestLine splits "METHOD SP target SP version". A missing or
// unrecognized version is normalized to HTTP/1.1 rather than rejected.
func parseRequestLine(line string) (method, target, version string, err error) {
	parts := strings.Fields(line)
	switch len(parts) {
	case 0:
		return "", "", "", ErrInvalidRequestLine
	case 1:
		return "", "", "", ErrInvalidRequestLine
	default:
		method, target = parts[0], parts[1]
		version = Proto11
	}
	if method == "" || target == "" {
		return "", "", "", ErrInvalidRequestLine
	}
	if target[0] != '/' {
		return "", "", "", ErrInvalidRequestLine
	}
	return method, target, version, nil
}

// hasDotDotSegment reports whether urlPath contains a literal ".." path
// segment. It is rejected outright rather than canonicalized, since the
// Responder resolves paths by textual prefix-stripping and concatenation
// with no chroot; an unrejected ".." would let a request escape
// location.root.
func hasDotDotSegment(urlPath string) bool {
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func splitPathQuery(req *Request) {
	if i := strings.IndexByte(req.Target, '?'); i != -1 {
		req.Path = req.Target[:i]
		req.Query = req.Target[i+1:]
	} else {
		req.Path = req.Target
	}
}

// normalizeURL strips trailing slashes from a non-root target and records
// whether anything was stripped.
func normalizeURL(req *Request) {
	t := req.Target
	query := ""
	if i := strings.IndexByte(t, '?'); i != -1 {
		t, query = t[:i], t[i:]
	}
	trimmed := t
	for len(trimmed) > 1 && trimmed[len(trimmed)-1] == '/' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if trimmed != t {
		req.Normalized = true
		req.Target = trimmed + query
	}
}

// parseHeaderLines parses CRLF-terminated "Name: Value" lines with
// case-insensitive names and last-wins duplicates.
func parseHeaderLines(block string, h Header) error {
	for len(block) > 0 {
		idx := strings.Index(block, "\r\n")
		line := block
		if idx != -1 {
			line = block[:idx]
			block = block[idx+2:]
		} else {
			block = ""
		}
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return ErrInvalidHeader
		}
		name := line[:colon]
		value := strings.TrimSpace(line[colon+1:])
		if strings.ContainsAny(name, " \t") {
			return ErrInvalidHeader
		}
		h.Set(name, value)
	}
	return nil
}

// resolveFraming derives ContentLength/Chunked from the parsed headers:
// Transfer-Encoding containing "chunked" wins over Content-Length, which
// must otherwise be a non-negative integer.
func resolveFraming(req *Request) error {
	if te := req.Header.Get("Transfer-Encoding"); strings.Contains(strings.ToLower(te), "chunked") {
		req.Chunked = true
		return nil
	}
	if cl := req.Header.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return ErrInvalidContentLength
		}
		req.ContentLength = n
	}
	return nil
}

// HostPart returns the Host header with any ":port" suffix stripped, for
// use by the Router.
func (r *Request) HostPart() string {
	host := r.Header.Get("Host")
	if i := strings.LastIndexByte(host, ':'); i != -1 {
		// IPv6 literals are out of scope, so a plain rindex is sufficient for
		// the "host[:port]" grammar in use.
		return host[:i]
	}
	return host
}
