package transport

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readChunked consumes a chunked transfer-encoded body, including the
// terminating zero chunk and any trailer lines, and returns the
// concatenated payload.
func readChunked(br *bufio.Reader) ([]byte, error) {
	var body []byte
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: read chunk size: %v", ErrTransport, err)
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i] // drop chunk extensions
		}
		line = strings.TrimSpace(line)
		n, convErr := strconv.ParseInt(line, 16, 64)
		if convErr != nil || n < 0 {
			return nil, fmt.Errorf("%w: chunk size %q", ErrMalformedResponse, line)
		}
		if n == 0 {
			// Trailer lines up to the blank terminator are discarded.
			for {
				l, err := readLine(br)
				if err != nil {
					return nil, fmt.Errorf("%w: read trailers: %v", ErrTransport, err)
				}
				if l == "" {
					return body, nil
				}
			}
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, fmt.Errorf("%w: read chunk: %v", ErrTransport, err)
		}
		body = append(body, chunk...)
		cr, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: read chunk terminator: %v", ErrTransport, err)
		}
		lf, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: read chunk terminator: %v", ErrTransport, err)
		}
		if cr != '\r' || lf != '\n' {
			return nil, fmt.Errorf("%w: missing CRLF after chunk", ErrMalformedResponse)
		}
	}
}
