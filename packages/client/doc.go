// Package client provides the wirehttp request executor: a direct HTTP
// client that opens one connection per logical call, follows redirects
// under a configurable policy, decodes compressed bodies, and exposes a
// soft-failure JSON view of responses.
//
// Do is the single entry point; the verb methods (Get, Post, ...) are thin
// wrappers over it. Configuration lives on the Client instance — there is
// no process-wide state. Callers who want "set once, use everywhere"
// construct one Client and share it; concurrent calls are safe because
// every call owns its own connection.
package client
