package client

import (
	"crypto/tls"
	"time"

	"github.com/wirehttp/wirehttp/packages/transport"
)

const (
	// DefaultTimeout is the default dial and per-exchange I/O deadline.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects bounds the number of requests one logical call
	// may send, the initial request included.
	DefaultMaxRedirects = 10
	// DefaultUserAgent identifies the client unless overridden.
	DefaultUserAgent = "wirehttp/1.0"
)

// Conn is the connection surface Do drives. transport.Conn satisfies it;
// tests substitute their own via WithDialFunc.
type Conn interface {
	Send(*transport.Request) (*transport.Response, error)
	Close() error
}

// DialFunc opens a connection to a scheme/host/port target. A zero port
// selects the scheme default.
type DialFunc func(scheme, host string, port int) (Conn, error)

type Client struct {
	dial            DialFunc
	timeout         time.Duration
	followRedirects bool
	maxRedirects    int
	postRedirectGet bool
	validateSSL     bool
	requestIDs      bool
	defaultHeaders  map[string]string
}

type Option func(*Client)

func New(opts ...Option) *Client {
	c := &Client{
		timeout:         DefaultTimeout,
		followRedirects: true,
		maxRedirects:    DefaultMaxRedirects,
		postRedirectGet: true,
		validateSSL:     true,
		defaultHeaders:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dial == nil {
		d := &transport.Dialer{Timeout: c.timeout}
		if !c.validateSSL {
			d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
		c.dial = func(scheme, host string, port int) (Conn, error) {
			cn, err := d.Dial(scheme, host, port)
			if err != nil {
				return nil, err
			}
			return cn, nil
		}
	}
	return c
}

// WithTimeout sets the dial and I/O deadline for each exchange.
// Zero disables deadlines; a blocked read then blocks indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFollowRedirects sets the default redirect policy. A per-request
// override is available on Request.AllowRedirects.
func WithFollowRedirects(follow bool) Option {
	return func(c *Client) {
		c.followRedirects = follow
	}
}

// WithMaxRedirects bounds the number of requests per logical call.
func WithMaxRedirects(max int) Option {
	return func(c *Client) {
		if max > 0 {
			c.maxRedirects = max
		}
	}
}

// WithPostRedirectGet controls whether 301 and 302 responses downgrade a
// POST to a bodiless GET, the legacy convention most clients follow.
// 303 always downgrades and 307/308 never do, regardless of this setting.
func WithPostRedirectGet(downgrade bool) Option {
	return func(c *Client) {
		c.postRedirectGet = downgrade
	}
}

// WithValidateSSL enables or disables TLS certificate verification.
func WithValidateSSL(validate bool) Option {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithRequestIDs stamps a fresh X-Request-ID header on every request that
// does not already carry one.
func WithRequestIDs() Option {
	return func(c *Client) {
		c.requestIDs = true
	}
}

func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets default headers for all requests. Caller-supplied
// request headers win on key collision.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithDialFunc replaces the connection factory. Intended for tests.
func WithDialFunc(dial DialFunc) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

func (c *Client) Get(url string, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "GET", URL: url, Headers: headers})
}

func (c *Client) Post(url string, jsonData any, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "POST", URL: url, JSON: jsonData, Headers: headers})
}

func (c *Client) Put(url string, jsonData any, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "PUT", URL: url, JSON: jsonData, Headers: headers})
}

func (c *Client) Patch(url string, jsonData any, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "PATCH", URL: url, JSON: jsonData, Headers: headers})
}

func (c *Client) Delete(url string, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "DELETE", URL: url, Headers: headers})
}

func (c *Client) Head(url string, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "HEAD", URL: url, Headers: headers})
}

func (c *Client) Options(url string, headers map[string]string) (*Response, error) {
	return c.Do(&Request{Method: "OPTIONS", URL: url, Headers: headers})
}
