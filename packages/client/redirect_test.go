package client

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirehttp/wirehttp/packages/transport"
)

func pending(method, rawURL string, body []byte) *pendingRequest {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	h := transport.NewHeader()
	h.Set("User-Agent", DefaultUserAgent)
	if body != nil {
		h.Set("Content-Type", "application/json")
	}
	return &pendingRequest{method: method, u: u, headers: h, body: body}
}

func TestResolveRedirect_RelativeLocation(t *testing.T) {
	p := pending("GET", "http://example.com/a/b?q=1", nil)

	next, err := resolveRedirect(p, 302, "/new", true)

	require.NoError(t, err)
	assert.Equal(t, "http://example.com/new", next.u.String())
	assert.Equal(t, "GET", next.method)
}

func TestResolveRedirect_AbsoluteLocation(t *testing.T) {
	p := pending("GET", "http://example.com/a", nil)

	next, err := resolveRedirect(p, 301, "https://other.example.net/elsewhere", true)

	require.NoError(t, err)
	assert.Equal(t, "https", next.u.Scheme)
	assert.Equal(t, "other.example.net", next.u.Host)
	assert.Equal(t, "/elsewhere", next.u.Path)
}

func TestResolveRedirect_301Post_DowngradeOn(t *testing.T) {
	p := pending("POST", "http://example.com/old", []byte(`{"k":"v"}`))

	next, err := resolveRedirect(p, 301, "/new", true)

	require.NoError(t, err)
	assert.Equal(t, "GET", next.method)
	assert.Nil(t, next.body)
	assert.False(t, next.headers.Has("Content-Type"), "content-type dropped with the body")
	assert.Equal(t, DefaultUserAgent, next.headers.Get("User-Agent"), "other headers preserved")
}

func TestResolveRedirect_301Post_DowngradeOff(t *testing.T) {
	p := pending("POST", "http://example.com/old", []byte(`{"k":"v"}`))

	next, err := resolveRedirect(p, 301, "/new", false)

	require.NoError(t, err)
	assert.Equal(t, "POST", next.method)
	assert.Equal(t, []byte(`{"k":"v"}`), next.body)
	assert.True(t, next.headers.Has("Content-Type"))
}

func TestResolveRedirect_302NonPost_Preserved(t *testing.T) {
	p := pending("PUT", "http://example.com/old", []byte("x"))

	next, err := resolveRedirect(p, 302, "/new", true)

	require.NoError(t, err)
	assert.Equal(t, "PUT", next.method)
	assert.Equal(t, []byte("x"), next.body)
}

func TestResolveRedirect_303_AlwaysDowngrades(t *testing.T) {
	p := pending("PUT", "http://example.com/old", []byte("x"))

	next, err := resolveRedirect(p, 303, "/result", false)

	require.NoError(t, err)
	assert.Equal(t, "GET", next.method)
	assert.Nil(t, next.body)
}

func TestResolveRedirect_307And308_PreserveEverything(t *testing.T) {
	for _, status := range []int{307, 308} {
		p := pending("POST", "http://example.com/old", []byte("x"))

		next, err := resolveRedirect(p, status, "/new", true)

		require.NoError(t, err)
		assert.Equal(t, "POST", next.method)
		assert.Equal(t, []byte("x"), next.body)
		assert.True(t, next.headers.Has("Content-Type"))
	}
}

func TestResolveRedirect_MissingLocation(t *testing.T) {
	p := pending("GET", "http://example.com", nil)

	_, err := resolveRedirect(p, 302, "", true)

	assert.ErrorIs(t, err, ErrMissingLocation)
}

func TestResolveRedirect_NonHTTPTarget(t *testing.T) {
	p := pending("GET", "http://example.com", nil)

	_, err := resolveRedirect(p, 302, "ftp://example.com/file", true)

	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestResolveRedirect_DropsExplicitHostHeader(t *testing.T) {
	p := pending("GET", "http://example.com", nil)
	p.headers.Set("Host", "example.com")

	next, err := resolveRedirect(p, 302, "http://other.example.net/", true)

	require.NoError(t, err)
	assert.False(t, next.headers.Has("Host"), "Host is recomputed for the new target")
}

func TestIsRedirect(t *testing.T) {
	for _, status := range []int{301, 302, 303, 307, 308} {
		assert.True(t, isRedirect(status), "status %d", status)
	}
	for _, status := range []int{200, 204, 300, 304, 400, 500} {
		assert.False(t, isRedirect(status), "status %d", status)
	}
}
