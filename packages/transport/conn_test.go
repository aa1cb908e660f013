package transport

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exchange runs one Send against an in-memory peer that replies with raw
// and returns the request text as the peer saw it.
func exchange(t *testing.T, req *Request, raw string) (*Response, string, error) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	t.Cleanup(func() {
		clientSide.Close()
		serverSide.Close()
	})

	gotReq := make(chan string, 1)
	go func() {
		br := bufio.NewReader(serverSide)
		var sb strings.Builder
		contentLength := 0
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				gotReq <- sb.String()
				return
			}
			sb.WriteString(line)
			trimmed := strings.TrimRight(line, "\r\n")
			if v, ok := strings.CutPrefix(trimmed, "Content-Length: "); ok {
				contentLength, _ = strconv.Atoi(v)
			}
			if trimmed == "" {
				break
			}
		}
		if contentLength > 0 {
			body := make([]byte, contentLength)
			if _, err := io.ReadFull(br, body); err == nil {
				sb.Write(body)
			}
		}
		gotReq <- sb.String()
		_, _ = serverSide.Write([]byte(raw))
		_ = serverSide.Close()
	}()

	cn := NewConn(clientSide, 0)
	resp, err := cn.Send(req)
	return resp, <-gotReq, err
}

func TestConn_Send_ContentLengthBody(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/users?active=1", Headers: NewHeader()}
	req.Headers.Set("Accept", "*/*")

	resp, sent, err := exchange(t, req,
		"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello")

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.Reason)
	assert.Equal(t, "HTTP/1.1", resp.Proto)
	assert.Equal(t, []byte("hello"), resp.Body)
	assert.Equal(t, "text/plain", resp.Headers.Get("Content-Type"))
	assert.True(t, resp.KeepAlive)

	assert.True(t, strings.HasPrefix(sent, "GET /users?active=1 HTTP/1.1\r\n"))
	assert.Contains(t, sent, "Host: example.com\r\n")
	assert.Contains(t, sent, "Accept: */*\r\n")
	assert.NotContains(t, sent, "Content-Length")
}

func TestConn_Send_WritesComputedContentLength(t *testing.T) {
	req := &Request{Method: "POST", Host: "example.com", Path: "/", Headers: NewHeader(), Body: []byte(`{"a":1}`)}
	req.Headers.Set("Content-Type", "application/json")
	// A stale caller value must not survive: the body length wins.
	req.Headers.Set("Content-Length", "999")

	_, sent, err := exchange(t, req,
		"HTTP/1.1 204 No Content\r\n\r\n")

	require.NoError(t, err)
	assert.Contains(t, sent, "Content-Length: 7\r\n")
	assert.NotContains(t, sent, "Content-Length: 999")
	assert.True(t, strings.HasSuffix(sent, "\r\n\r\n"+`{"a":1}`))
}

func TestConn_Send_ChunkedResponse(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}

	resp, _, err := exchange(t, req,
		"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n"+
			"5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n")

	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), resp.Body)
	assert.True(t, resp.KeepAlive)
}

func TestConn_Send_CloseDelimitedBody(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}

	resp, _, err := exchange(t, req,
		"HTTP/1.1 200 OK\r\n\r\nuntil eof")

	require.NoError(t, err)
	assert.Equal(t, []byte("until eof"), resp.Body)
	assert.False(t, resp.KeepAlive, "close-delimited bodies spend the connection")
}

func TestConn_Send_ConnectionCloseHeader(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}

	resp, _, err := exchange(t, req,
		"HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok")

	require.NoError(t, err)
	assert.False(t, resp.KeepAlive)
}

func TestConn_Send_HeadHasNoBody(t *testing.T) {
	req := &Request{Method: "HEAD", Host: "example.com", Path: "/", Headers: NewHeader()}

	resp, _, err := exchange(t, req,
		"HTTP/1.1 200 OK\r\nContent-Length: 1000\r\n\r\n")

	require.NoError(t, err)
	assert.Empty(t, resp.Body)
	assert.True(t, resp.KeepAlive)
	assert.Equal(t, "1000", resp.Headers.Get("Content-Length"))
}

func TestConn_Send_MalformedStatusLine(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}

	_, _, err := exchange(t, req, "NOT-HTTP nonsense\r\n\r\n")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestConn_Send_MalformedHeaderLine(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}

	_, _, err := exchange(t, req, "HTTP/1.1 200 OK\r\nno-colon-here\r\n\r\n")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestConn_Send_BadContentLength(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}

	_, _, err := exchange(t, req, "HTTP/1.1 200 OK\r\nContent-Length: banana\r\n\r\n")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestConn_Send_PeerHangupIsTransportError(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	go func() {
		buf := make([]byte, 1)
		_, _ = serverSide.Read(buf)
		_ = serverSide.Close()
	}()

	cn := NewConn(clientSide, 0)
	_, err := cn.Send(&Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()})

	assert.ErrorIs(t, err, ErrTransport)
}

func TestConn_Send_HeaderOrderPreserved(t *testing.T) {
	req := &Request{Method: "GET", Host: "example.com", Path: "/", Headers: NewHeader()}
	req.Headers.Set("X-First", "1")
	req.Headers.Set("X-Second", "2")
	req.Headers.Set("X-Third", "3")

	_, sent, err := exchange(t, req, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n")

	require.NoError(t, err)
	first := strings.Index(sent, "X-First")
	second := strings.Index(sent, "X-Second")
	third := strings.Index(sent, "X-Third")
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
}

func TestDialer_RefusedConnection(t *testing.T) {
	// Bind a port and close it so nothing is listening there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	d := &Dialer{}
	_, err = d.Dial("http", "127.0.0.1", addr.Port)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDialer_UnsupportedScheme(t *testing.T) {
	d := &Dialer{}
	_, err := d.Dial("ftp", "example.com", 21)
	assert.ErrorIs(t, err, ErrTransport)
}
