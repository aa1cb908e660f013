package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// Conn is one persistent socket. It is owned by a single logical call and
// is not safe for concurrent use.
type Conn struct {
	c       net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	timeout time.Duration
	closed  bool
}

// NewConn wraps an established socket. The timeout, when positive, is
// applied as a write and read deadline around each exchange.
func NewConn(c net.Conn, timeout time.Duration) *Conn {
	return &Conn{
		c:       c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
		timeout: timeout,
	}
}

func (cn *Conn) Close() error {
	if cn.closed {
		return nil
	}
	cn.closed = true
	return cn.c.Close()
}

// Send writes one framed request and reads the full framed response.
func (cn *Conn) Send(req *Request) (*Response, error) {
	if cn.timeout > 0 {
		_ = cn.c.SetWriteDeadline(time.Now().Add(cn.timeout))
	}
	if err := cn.writeRequest(req); err != nil {
		return nil, err
	}
	if cn.timeout > 0 {
		_ = cn.c.SetReadDeadline(time.Now().Add(cn.timeout))
	}
	return cn.readResponse(req.Method)
}

func (cn *Conn) writeRequest(req *Request) error {
	if _, err := fmt.Fprintf(cn.bw, "%s %s HTTP/1.1\r\n", req.Method, req.Path); err != nil {
		return fmt.Errorf("%w: write request line: %v", ErrTransport, err)
	}

	hdr := req.Headers
	host := hdr.Get("Host")
	if host == "" {
		host = req.Host
	}
	if _, err := fmt.Fprintf(cn.bw, "Host: %s\r\n", host); err != nil {
		return fmt.Errorf("%w: write headers: %v", ErrTransport, err)
	}
	// Content-Length is always recomputed from the body actually sent.
	if len(req.Body) > 0 || methodUsuallyHasBody(req.Method) {
		if _, err := fmt.Fprintf(cn.bw, "Content-Length: %d\r\n", len(req.Body)); err != nil {
			return fmt.Errorf("%w: write headers: %v", ErrTransport, err)
		}
	}
	if hdr != nil {
		for _, k := range hdr.Keys() {
			if k == "Host" || k == "Content-Length" {
				continue
			}
			for _, v := range hdr.Values(k) {
				if _, err := fmt.Fprintf(cn.bw, "%s: %s\r\n", k, v); err != nil {
					return fmt.Errorf("%w: write headers: %v", ErrTransport, err)
				}
			}
		}
	}
	if _, err := io.WriteString(cn.bw, "\r\n"); err != nil {
		return fmt.Errorf("%w: write headers: %v", ErrTransport, err)
	}
	if len(req.Body) > 0 {
		if _, err := cn.bw.Write(req.Body); err != nil {
			return fmt.Errorf("%w: write body: %v", ErrTransport, err)
		}
	}
	if err := cn.bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush request: %v", ErrTransport, err)
	}
	return nil
}

func (cn *Conn) readResponse(method string) (*Response, error) {
	proto, code, reason, err := readStatusLine(cn.br)
	if err != nil {
		return nil, err
	}
	hdr, err := readHeaders(cn.br)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Proto:      proto,
		StatusCode: code,
		Reason:     reason,
		Headers:    hdr,
	}

	reuse := true
	switch {
	case noResponseBody(code, method):
		resp.Body = nil
	case hasChunkedEncoding(hdr):
		body, err := readChunked(cn.br)
		if err != nil {
			return nil, err
		}
		resp.Body = body
	case hdr.Has("Content-Length"):
		n, err := strconv.ParseInt(strings.TrimSpace(hdr.Get("Content-Length")), 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad Content-Length %q", ErrMalformedResponse, hdr.Get("Content-Length"))
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(cn.br, body); err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
		}
		resp.Body = body
	default:
		// Close-delimited body: read to EOF, connection is spent.
		body, err := io.ReadAll(cn.br)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
		}
		resp.Body = body
		reuse = false
	}

	if strings.EqualFold(hdr.Get("Connection"), "close") {
		reuse = false
	}
	resp.KeepAlive = reuse
	return resp, nil
}

// noResponseBody reports status/method combinations that never carry a body.
func noResponseBody(code int, method string) bool {
	if strings.EqualFold(method, "HEAD") {
		return true
	}
	return code/100 == 1 || code == 204 || code == 304
}

func methodUsuallyHasBody(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

func hasChunkedEncoding(h *Header) bool {
	for _, v := range h.Values("Transfer-Encoding") {
		if strings.Contains(strings.ToLower(v), "chunked") {
			return true
		}
	}
	return false
}

func readStatusLine(br *bufio.Reader) (proto string, code int, reason string, err error) {
	line, err := readLine(br)
	if err != nil {
		return "", 0, "", fmt.Errorf("%w: read status line: %v", ErrTransport, err)
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/1.") {
		return "", 0, "", fmt.Errorf("%w: status line %q", ErrMalformedResponse, line)
	}
	code, convErr := strconv.Atoi(parts[1])
	if convErr != nil || code < 100 || code > 999 {
		return "", 0, "", fmt.Errorf("%w: status line %q", ErrMalformedResponse, line)
	}
	if len(parts) == 3 {
		reason = parts[2]
	}
	return parts[0], code, reason, nil
}

func readHeaders(br *bufio.Reader) (*Header, error) {
	h := NewHeader()
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: read headers: %v", ErrTransport, err)
		}
		if line == "" {
			return h, nil
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedResponse, line)
		}
		h.Add(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
}

// readLine reads up to CRLF (or bare LF), excluding the terminator.
func readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			return sb.String(), nil
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if sb.Len() > maxLineLength {
			return "", fmt.Errorf("line exceeds %d bytes", maxLineLength)
		}
	}
}
