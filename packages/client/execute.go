package client

import (
	"fmt"
	"time"

	"github.com/wirehttp/wirehttp/packages/codec"
)

// Do executes one logical call: it normalizes the request, opens a
// connection to the target, sends the request, and follows redirects
// under the effective policy until a final response arrives or the hop
// bound is exceeded. The connection (or chain of connections) is owned by
// this call alone and is closed before Do returns.
func (c *Client) Do(req *Request) (*Response, error) {
	p, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	follow := c.followRedirects
	if req.AllowRedirects != nil {
		follow = *req.AllowRedirects
	}

	start := time.Now()

	var conn Conn
	var connScheme, connHost string
	var connPort int
	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
	}()

	for hop := 0; hop < c.maxRedirects; hop++ {
		scheme, host, port := p.target()
		if conn != nil && (scheme != connScheme || host != connHost || port != connPort) {
			_ = conn.Close()
			conn = nil
		}
		if conn == nil {
			conn, err = c.dial(scheme, host, port)
			if err != nil {
				return nil, err
			}
			connScheme, connHost, connPort = scheme, host, port
		}

		resp, err := conn.Send(p.wire())
		if err != nil {
			return nil, err
		}
		if !resp.KeepAlive {
			_ = conn.Close()
			conn = nil
		}

		if follow && isRedirect(resp.StatusCode) {
			p, err = resolveRedirect(p, resp.StatusCode, resp.Headers.Get("Location"), c.postRedirectGet)
			if err != nil {
				return nil, err
			}
			continue
		}

		content, err := codec.Decode(resp.Body, resp.Headers.Get("Content-Encoding"))
		if err != nil {
			return nil, err
		}
		return &Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Content:    content,
			Duration:   time.Since(start),
		}, nil
	}

	return nil, fmt.Errorf("%w: gave up after %d requests", ErrTooManyRedirects, c.maxRedirects)
}
