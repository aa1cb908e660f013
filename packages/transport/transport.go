package transport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultDialTimeout bounds connection establishment.
	DefaultDialTimeout = 10 * time.Second
	// maxLineLength bounds a single status or header line.
	maxLineLength = 8 << 10
)

var (
	// ErrTransport wraps socket-level failures: refused connections,
	// resets, timeouts. Never retried here.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse reports a response that cannot be parsed into
	// a status line, headers and a framed body.
	ErrMalformedResponse = errors.New("malformed response")
)

// Request is the wire-level request. Host and Content-Length headers are
// computed at send time; Body is sent verbatim after the header block.
type Request struct {
	Method  string
	Host    string // Host header value, including any non-default port
	Path    string // absolute path, including query string
	Headers *Header
	Body    []byte
}

// Response is the wire-level response with the body fully read.
// KeepAlive reports whether the connection may carry another request.
type Response struct {
	Proto      string
	StatusCode int
	Reason     string
	Headers    *Header
	Body       []byte
	KeepAlive  bool
}

// Dialer opens connections for a scheme/host/port target.
type Dialer struct {
	Timeout   time.Duration // dial and per-exchange I/O deadline; zero blocks
	TLSConfig *tls.Config   // https only; nil means default trust
}

// Dial connects to the target and returns a connection ready for Send.
// A zero port selects the scheme default (80 or 443).
func (d *Dialer) Dial(scheme, host string, port int) (*Conn, error) {
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrTransport, scheme)
	}
	if port == 0 {
		if scheme == "https" {
			port = 443
		} else {
			port = 80
		}
	}
	timeout := d.Timeout
	if timeout < 0 {
		timeout = 0
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	nd := net.Dialer{Timeout: timeout}

	var c net.Conn
	var err error
	if scheme == "https" {
		cfg := d.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{}
		}
		if cfg.ServerName == "" {
			cfg = cfg.Clone()
			cfg.ServerName = host
		}
		td := tls.Dialer{NetDialer: &nd, Config: cfg}
		c, err = td.Dial("tcp", addr)
	} else {
		c, err = nd.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransport, addr, err)
	}
	return NewConn(c, timeout), nil
}
