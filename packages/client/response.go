package client

import (
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/wirehttp/wirehttp/packages/transport"
)

// Response is the immutable result of one logical call. Content holds the
// body after Content-Encoding decoding; Headers preserve insertion order
// and answer case-insensitive lookups.
type Response struct {
	StatusCode int
	Headers    *transport.Header
	Content    []byte
	Duration   time.Duration

	jsonOnce sync.Once
	json     *gjson.Result
}

// JSON returns the body parsed as JSON, computed once on first access.
// It is nil when the body is empty or not valid JSON; a parse failure is
// a soft condition and never an error.
func (r *Response) JSON() *gjson.Result {
	r.jsonOnce.Do(func() {
		if len(r.Content) == 0 || !gjson.ValidBytes(r.Content) {
			return
		}
		res := gjson.ParseBytes(r.Content)
		r.json = &res
	})
	return r.json
}

// Header returns the first value for the named header, or "".
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Response) BodyString() string {
	return string(r.Content)
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
