// Package rpc implements the Content-Length framing that carries
// JSON-RPC messages over a byte stream.
package rpc

import (
	"bytes"
	"fmt"
	"strconv"
)

const (
	contentLengthPrefix = "Content-Length: "
	headerSeparator     = "\r\n\r\n"
)

// FramingError reports a malformed message header. The bytes that
// caused it stay buffered so the caller decides how to recover.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return "framing: " + e.Reason
}

// Buffer accumulates raw bytes from a stream and yields complete framed
// messages as they arrive. Bytes are kept verbatim, so a message split
// at any point, including inside a multi-byte character, reassembles
// exactly.
//
// The zero value is ready to use.
type Buffer struct {
	pending []byte
}

// Write appends p to the buffered bytes. It never fails and always
// reports len(p) written, satisfying io.Writer for read loops.
func (b *Buffer) Write(p []byte) (int, error) {
	b.pending = append(b.pending, p...)
	return len(p), nil
}

// Len reports the number of buffered bytes not yet consumed.
func (b *Buffer) Len() int {
	return len(b.pending)
}

// Pop extracts the next complete message payload from the buffer.
//
// It returns ok=false with a nil error when more bytes are needed, and
// ok=false with a *FramingError when the buffered header is malformed.
// The buffer is left unchanged in both cases. On success the consumed
// message is removed and its payload returned; any following bytes stay
// buffered, so Pop can be called repeatedly to drain pipelined messages.
func (b *Buffer) Pop() ([]byte, bool, error) {
	sep := bytes.Index(b.pending, []byte(headerSeparator))
	if sep < 0 {
		return nil, false, nil
	}

	contentLength, err := parseContentLength(b.pending[:sep])
	if err != nil {
		return nil, false, err
	}

	body := b.pending[sep+len(headerSeparator):]
	if len(body) < contentLength {
		return nil, false, nil
	}

	payload := bytes.Clone(body[:contentLength])
	b.pending = b.pending[sep+len(headerSeparator)+contentLength:]

	return payload, true, nil
}

// parseContentLength extracts the byte count from a "Content-Length: N"
// header.
func parseContentLength(header []byte) (int, error) {
	value, found := bytes.CutPrefix(header, []byte(contentLengthPrefix))
	if !found {
		return 0, &FramingError{Reason: "missing Content-Length header"}
	}

	contentLength, err := strconv.Atoi(string(value))
	if err != nil || contentLength < 0 {
		return 0, &FramingError{Reason: fmt.Sprintf("invalid content length %q", value)}
	}

	return contentLength, nil
}
