package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/wirehttp/wirehttp/packages/transport"
)

// Request describes one logical call. JSON and Body are mutually
// exclusive: JSON is serialized to UTF-8 bytes and implies a
// Content-Type of application/json unless the caller set one; Body is
// sent verbatim. AllowRedirects, when non-nil, overrides the client's
// redirect policy for this call.
type Request struct {
	Method         string
	URL            string
	Headers        map[string]string
	JSON           any
	Body           []byte
	AllowRedirects *bool
}

var supportedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// pendingRequest is the executor's working state for one hop of the
// redirect chain.
type pendingRequest struct {
	method  string
	u       *url.URL
	headers *transport.Header
	body    []byte
}

func (p *pendingRequest) target() (scheme, host string, port int) {
	port, _ = strconv.Atoi(p.u.Port())
	return p.u.Scheme, p.u.Hostname(), port
}

func (p *pendingRequest) wire() *transport.Request {
	path := p.u.RequestURI()
	if path == "" {
		path = "/"
	}
	return &transport.Request{
		Method:  p.method,
		Host:    p.u.Host,
		Path:    path,
		Headers: p.headers,
		Body:    p.body,
	}
}

// prepare validates a Request and normalizes it into the first pending
// hop: method and scheme checks, body serialization, header merge.
func (c *Client) prepare(req *Request) (*pendingRequest, error) {
	method := strings.ToUpper(req.Method)
	if !supportedMethods[method] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", req.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: missing host", req.URL)
	}

	if req.JSON != nil && req.Body != nil {
		return nil, ErrAmbiguousBody
	}

	body := req.Body
	jsonBody := false
	if req.JSON != nil {
		body, err = json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		jsonBody = true
	}

	headers := c.mergeHeaders(req.Headers)
	if jsonBody && !headers.Has("Content-Type") {
		headers.Set("Content-Type", "application/json")
	}
	if c.requestIDs && !headers.Has("X-Request-ID") {
		headers.Set("X-Request-ID", uuid.NewString())
	}

	return &pendingRequest{method: method, u: u, headers: headers, body: body}, nil
}

// mergeHeaders layers the built-in defaults, the client defaults, and the
// caller's headers, later writers winning. Map sources are applied in
// sorted key order so the wire output is deterministic.
func (c *Client) mergeHeaders(callerHeaders map[string]string) *transport.Header {
	h := transport.NewHeader()
	h.Set("User-Agent", DefaultUserAgent)
	h.Set("Accept-Encoding", "gzip, deflate")
	h.Set("Accept", "*/*")
	h.Set("Connection", "keep-alive")
	for _, k := range sortedKeys(c.defaultHeaders) {
		h.Set(k, c.defaultHeaders[k])
	}
	for _, k := range sortedKeys(callerHeaders) {
		h.Set(k, callerHeaders[k])
	}
	return h
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
