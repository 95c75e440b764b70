package wire

import (
	"net/http"
	"strconv"
	"time"
)

// Response is an outgoing HTTP/1.1 message assembled in full before the
// Conn ever sees it: routing and response generation happen synchronously,
// so there is no partial-body streaming to manage here, unlike the
// teacher's incremental ResponseWriter.
type Response struct {
	Status int
	Header Header
	Body   []byte
	NoBody bool // true for HEAD: headers describe Body's length but it is not sent
}

// NewResponse returns a Response with an empty header set.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: NewHeader()}
}

// Bytes assembles the status line, headers (every caller-set header, plus
// Content-Length and Date filled in when the caller has not set them), and
// body into the wire format.
func (r *Response) Bytes() []byte {
	if !r.Header.Has("Content-Length") {
		r.Header.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	if !r.Header.Has("Date") {
		r.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	}

	out := make([]byte, 0, 256+len(r.Body))
	out = append(out, Proto11...)
	out = append(out, ' ')
	out = append(out, strconv.Itoa(r.Status)...)
	out = append(out, ' ')
	out = append(out, StatusText(r.Status)...)
	out = append(out, "\r\n"...)

	for name, value := range r.Header {
		out = append(out, canonicalHeaderCase(name)...)
		out = append(out, ": "...)
		out = append(out, value...)
		out = append(out, "\r\n"...)
	}
	out = append(out, "\r\n"...)

	if !r.NoBody {
		out = append(out, r.Body...)
	}
	return out
}

// canonicalHeaderCase renders a lowercased header key in the
// Title-Case-With-Dashes form HTTP clients expect on the wire, even though
// Header stores and compares everything lowercased internally.
func canonicalHeaderCase(key string) string {
	out := []byte(key)
	upperNext := true
	for i, c := range out {
		if upperNext && c >= 'a' && c <= 'z' {
			out[i] = c - ('a' - 'A')
		}
		upperNext = c == '-'
	}
	return string(out)
}
