// Package transport implements the wire layer of wirehttp: one plain or
// TLS socket per connection, HTTP/1.1 request framing on the way out and
// response framing (Content-Length, chunked, or close-delimited) on the
// way back. Bodies are fully materialized; there is no streaming surface.
//
// The package is deliberately free of policy: redirects, decoding and
// header defaults all live in packages/client.
package transport
