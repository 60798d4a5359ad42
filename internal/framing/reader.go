// Package framing implements the one contract the rest of the core relies
// on: read exactly N bytes from a stream, or fail cleanly.
package framing

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnexpectedEOF is returned when the stream ends before N bytes arrive.
var ErrUnexpectedEOF = errors.New("framing: stream ended before N bytes were read")

// ReadN reads exactly n bytes from r, concatenating as many reads as
// necessary. It never consumes more than n bytes. A partial read followed
// by io.EOF is reported as ErrUnexpectedEOF; any other read error is
// wrapped and returned as-is.
func ReadN(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("framing: read %d of %d bytes: %w", read, n, err)
	}
	return buf, nil
}
