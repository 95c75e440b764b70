package wire

import "errors"

// Parse errors, mirroring the teacher's http11/errors.go pattern of one
// sentinel per failure class so callers can map straight to a status code:
// every one of these is a 400 at the connection boundary.
var (
	// ErrInvalidRequestLine means the request line isn't "METHOD SP target SP version CRLF".
	ErrInvalidRequestLine = errors.New("wire: invalid request line")

	// ErrInvalidHeader means a header line isn't "Name: Value".
	ErrInvalidHeader = errors.New("wire: invalid header line")

	// ErrHeadersTooLarge means the accumulated header block exceeds the cap
	// (8 KiB).
	ErrHeadersTooLarge = errors.New("wire: headers exceed size cap")

	// ErrInvalidContentLength means the Content-Length value isn't a
	// non-negative integer.
	ErrInvalidContentLength = errors.New("wire: invalid Content-Length")

	// ErrChunkedFraming means a chunk-size line or chunk terminator didn't
	// match the expected grammar.
	ErrChunkedFraming = errors.New("wire: invalid chunked framing")

	// ErrPathTraversal means the request path contains a ".." segment,
	// rejected outright rather than canonicalized.
	ErrPathTraversal = errors.New("wire: path contains \"..\" segment")
)
