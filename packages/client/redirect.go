package client

import (
	"fmt"
	"net/url"
)

// redirectStatuses are the status codes that move the resource elsewhere.
var redirectStatuses = map[int]bool{
	301: true, 302: true, 303: true, 307: true, 308: true,
}

func isRedirect(status int) bool {
	return redirectStatuses[status]
}

// resolveRedirect computes the next hop from a redirect response.
//
// Method and body rules: 303 always downgrades to a bodiless GET; 307 and
// 308 always preserve method and body; 301 and 302 preserve them too,
// except that a POST downgrades to a bodiless GET when the
// post-redirect-get policy is active. Headers carry over, except that
// Host is recomputed for the new target and Content-Type is dropped
// alongside a dropped body (Content-Length is recomputed at send time).
func resolveRedirect(p *pendingRequest, status int, location string, postRedirectGet bool) (*pendingRequest, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: status %d", ErrMissingLocation, status)
	}
	loc, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable Location %q", ErrMissingLocation, location)
	}
	next := p.u.ResolveReference(loc)
	if next.Scheme != "http" && next.Scheme != "https" {
		return nil, fmt.Errorf("%w: redirect to %q", ErrUnsupportedScheme, next.Scheme)
	}

	method := p.method
	body := p.body
	switch status {
	case 303:
		method = "GET"
		body = nil
	case 301, 302:
		if method == "POST" && postRedirectGet {
			method = "GET"
			body = nil
		}
	}

	headers := p.headers.Clone()
	headers.Del("Host")
	if body == nil && p.body != nil {
		headers.Del("Content-Type")
	}

	return &pendingRequest{method: method, u: next, headers: headers, body: body}, nil
}
