// Package logging is the engine's one logging surface: a thin wrapper around
// the standard library logger, used the way the teacher's own server code
// logs diagnostics (plain log.Logger to stderr, no structured fields, no
// per-request access log).
package logging

import (
	"io"
	"log"
	"os"
)

// Logger prefixes every line with "[webserv]" and writes to stderr by default.
type Logger struct {
	l *log.Logger
}

// Default is the process-wide logger. The command uses it for startup events
// (listeners bound, fatal configuration, bind or event-loop errors); CGI
// kills and malformed requests are not logged.
var Default = New(os.Stderr)

// New builds a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{l: log.New(w, "[webserv] ", log.LstdFlags)}
}

// Infof logs a one-line informational message.
func (lg *Logger) Infof(format string, args ...any) {
	lg.l.Printf(format, args...)
}

// Errorf logs a one-line error diagnostic. It never panics or exits; the
// caller decides whether the error is fatal.
func (lg *Logger) Errorf(format string, args ...any) {
	lg.l.Printf("error: "+format, args...)
}

// Fatalf logs and terminates the process with exit code 1, for configuration
// and bind failures that leave nothing to serve.
func (lg *Logger) Fatalf(format string, args ...any) {
	lg.l.Fatalf(format, args...)
}
