package wire

import (
	"strconv"
	"strings"
)

// ChunkedDecoder incrementally decodes an HTTP/1.1 chunked body (RFC 7230
// §4.1) as bytes arrive from non-blocking reads. Unlike the teacher's
// ChunkedReader, which wraps a blocking io.Reader and pulls bytes on demand,
// this decoder is fed whatever the event loop happened to read this
// readiness cycle, buffers it, and returns whatever body bytes it could
// decode so far, since a chunk boundary may fall anywhere across reads.
type ChunkedDecoder struct {
	buf  []byte // bytes not yet decoded
	size int64  // bytes remaining in the chunk currently being read
	done bool
	// inSize is true while scanning the hex chunk-size line, false while
	// consuming chunk-data (or its trailing CRLF) or trailer lines.
	inSize    bool
	inTrailer bool
}

// NewChunkedDecoder returns a decoder positioned at the start of the first
// chunk-size line.
func NewChunkedDecoder() *ChunkedDecoder {
	return &ChunkedDecoder{inSize: true}
}

// Done reports whether the terminating zero-length chunk (and its trailers)
// has been consumed.
func (d *ChunkedDecoder) Done() bool {
	return d.done
}

// Feed appends data to the decoder's pending bytes and decodes as much as it
// can, returning any newly decoded body bytes. Call it repeatedly as more
// bytes arrive; once Done() is true the body is complete.
func (d *ChunkedDecoder) Feed(data []byte) ([]byte, error) {
	d.buf = append(d.buf, data...)
	var out []byte

	for {
		if d.done {
			return out, nil
		}

		if d.inTrailer {
			idx := indexCRLF(d.buf)
			if idx == -1 {
				return out, nil
			}
			line := d.buf[:idx]
			d.buf = d.buf[idx+2:]
			if len(line) == 0 {
				d.done = true
			}
			continue
		}

		if d.inSize {
			idx := indexCRLF(d.buf)
			if idx == -1 {
				if len(d.buf) > 64 {
					return out, ErrChunkedFraming
				}
				return out, nil
			}
			sizeLine := string(d.buf[:idx])
			d.buf = d.buf[idx+2:]
			// Chunk extensions are discarded: ignored, not smuggled.
			if semi := strings.IndexByte(sizeLine, ';'); semi != -1 {
				sizeLine = sizeLine[:semi]
			}
			sizeLine = strings.TrimSpace(sizeLine)
			n, err := strconv.ParseInt(sizeLine, 16, 64)
			if err != nil || n < 0 {
				return out, ErrChunkedFraming
			}
			d.size = n
			d.inSize = false
			if n == 0 {
				d.inTrailer = true
			}
			continue
		}

		// Consuming chunk-data followed by its trailing CRLF.
		if int64(len(d.buf)) < d.size+2 {
			if d.size > 0 && int64(len(d.buf)) > 0 {
				take := d.size
				if int64(len(d.buf)) < take {
					take = int64(len(d.buf))
				}
				out = append(out, d.buf[:take]...)
				d.buf = d.buf[take:]
				d.size -= take
			}
			return out, nil
		}
		out = append(out, d.buf[:d.size]...)
		d.buf = d.buf[d.size:]
		if d.buf[0] != '\r' || d.buf[1] != '\n' {
			return out, ErrChunkedFraming
		}
		d.buf = d.buf[2:]
		d.size = 0
		d.inSize = true
	}
}

func indexCRLF(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i
		}
	}
	return -1
}
