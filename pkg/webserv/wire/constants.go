// Package wire implements the HTTP/1.1 request-line, header-block, and body
// framing rules: incremental parsing that produces the same (method, URL,
// headers, body) regardless of how the byte stream is fragmented across
// reads.
package wire

// Core methods the Responder implements. Any other syntactically valid
// method token parses fine; it reaches the Responder whenever the matched
// location allows it (an empty allowed-methods list allows any method), and
// the Responder then answers it with 405 since it has no branch for it.
const (
	MethodGET    = "GET"
	MethodPOST   = "POST"
	MethodDELETE = "DELETE"
	MethodHEAD   = "HEAD"
)

// HTTP/1.1 is the only protocol version the engine ever emits; an absent or
// unrecognized request version is normalized to it.
const Proto11 = "HTTP/1.1"

// Status reason phrases for the status codes the engine can emit.
var statusText = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	413: "Payload Too Large",
	415: "Unsupported Media Type",
	500: "Internal Server Error",
	504: "Gateway Timeout",
}

// StatusText returns the reason phrase for code from the closed set above.
// For codes outside it, a 3xx code gets the generic "Redirect" and any other
// code gets "Error"; a configured redirect code that is in the table (e.g.
// 200 or 404) uses that table phrase, not "Redirect".
func StatusText(code int) string {
	if t, ok := statusText[code]; ok {
		return t
	}
	if code >= 300 && code < 400 {
		return "Redirect"
	}
	return "Error"
}

// contentTypeByExt is the closed extension-to-MIME table the engine knows
// about.
var contentTypeByExt = map[string]string{
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
}

// ContentTypeForExt returns the MIME type for a file extension (including
// the leading dot), defaulting to "text/html" for anything not in the
// closed set.
func ContentTypeForExt(ext string) string {
	if t, ok := contentTypeByExt[ext]; ok {
		return t
	}
	return "text/html"
}
