// Package codec decodes response bodies according to their declared
// Content-Encoding. Supported encodings are identity (or none), gzip,
// and deflate in both its zlib-wrapped and raw forms.
package codec

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDecoding reports an unknown Content-Encoding or a stream that fails
// to decompress under its declared encoding.
var ErrDecoding = errors.New("decoding error")

// Decode returns the decoded form of raw under the given Content-Encoding
// header value. An empty or "identity" encoding passes raw through.
func Decode(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return raw, nil
	case "gzip":
		return decodeGzip(raw)
	case "deflate":
		return decodeDeflate(raw)
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrDecoding, encoding)
	}
}

func decodeGzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrDecoding, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrDecoding, err)
	}
	return out, nil
}

// decodeDeflate tries the zlib-wrapped form first, then falls back to a
// raw deflate stream. Some servers send either under the same label.
func decodeDeflate(raw []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
		defer zr.Close()
		if out, err := io.ReadAll(zr); err == nil {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", ErrDecoding, err)
	}
	return out, nil
}
