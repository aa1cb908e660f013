package transport

import "strings"

// Header is an insertion-ordered header map with case-insensitive keys.
// Lookups and writes canonicalize the key (Content-Type form); iteration
// yields keys in the order they were first added.
type Header struct {
	keys   []string
	values map[string][]string
}

func NewHeader() *Header {
	return &Header{values: make(map[string][]string)}
}

// CanonicalKey converts a header name to its canonical form, e.g.
// "content-encoding" becomes "Content-Encoding".
func CanonicalKey(s string) string {
	b := []byte(strings.ToLower(s))
	upper := true
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			if upper {
				b[i] = byte(c - 'a' + 'A')
			}
			upper = false
		} else {
			upper = c == '-'
		}
	}
	return string(b)
}

// Add appends a value, keeping any existing values for the key.
func (h *Header) Add(key, value string) {
	ck := CanonicalKey(key)
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, ok := h.values[ck]; !ok {
		h.keys = append(h.keys, ck)
	}
	h.values[ck] = append(h.values[ck], value)
}

// Set replaces all values for the key. The key keeps its original position
// if it was already present.
func (h *Header) Set(key, value string) {
	ck := CanonicalKey(key)
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, ok := h.values[ck]; !ok {
		h.keys = append(h.keys, ck)
	}
	h.values[ck] = []string{value}
}

// Get returns the first value for the key, or "".
func (h *Header) Get(key string) string {
	if h == nil || h.values == nil {
		return ""
	}
	if vv, ok := h.values[CanonicalKey(key)]; ok && len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// Values returns all values for the key in insertion order.
func (h *Header) Values(key string) []string {
	if h == nil || h.values == nil {
		return nil
	}
	return h.values[CanonicalKey(key)]
}

func (h *Header) Has(key string) bool {
	if h == nil || h.values == nil {
		return false
	}
	_, ok := h.values[CanonicalKey(key)]
	return ok
}

func (h *Header) Del(key string) {
	if h == nil || h.values == nil {
		return
	}
	ck := CanonicalKey(key)
	if _, ok := h.values[ck]; !ok {
		return
	}
	delete(h.values, ck)
	for i, k := range h.keys {
		if k == ck {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the canonical keys in insertion order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

func (h *Header) Clone() *Header {
	if h == nil {
		return NewHeader()
	}
	c := &Header{
		keys:   make([]string, len(h.keys)),
		values: make(map[string][]string, len(h.values)),
	}
	copy(c.keys, h.keys)
	for k, vv := range h.values {
		c.values[k] = append([]string(nil), vv...)
	}
	return c
}
