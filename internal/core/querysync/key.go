package querysync

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	keySep        = ":"
	principalMark = "@"
)

// Key identifies one cache entry: a resource prefix followed by zero or more
// segments, joined with ":". Prefix matching only happens on segment
// boundaries, so "users:list" covers "users:list:{...}" but not "users:listing".
type Key string

// NewKey builds a key from a resource name and segments. Empty segments are
// skipped.
func NewKey(resource string, segments ...string) Key {
	return Key(resource).With(segments...)
}

// With appends segments to k.
func (k Key) With(segments ...string) Key {
	var b strings.Builder
	b.WriteString(string(k))
	for _, s := range segments {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(keySep)
		}
		b.WriteString(s)
	}
	return Key(b.String())
}

type zeroer interface{ IsZero() bool }

// WithParams appends a deterministic serialisation of params. Struct fields
// serialise in declaration order and map keys are sorted, so equal parameter
// values always produce equal keys. Nil or zero parameters leave k unchanged.
func (k Key) WithParams(params any) Key {
	if params == nil {
		return k
	}
	if z, ok := params.(zeroer); ok && z.IsZero() {
		return k
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return k.With(fmt.Sprintf("%v", params))
	}
	switch s := string(raw); s {
	case "null", "{}", `""`, "[]":
		return k
	default:
		return k.With(s)
	}
}

// For scopes k to one principal. The principal segment always goes last, so
// a prefix of the unscoped key still covers every principal's copy.
func (k Key) For(principal string) Key {
	if principal == "" {
		return k
	}
	return k.With(principalMark + url.QueryEscape(principal))
}

// Principal returns the principal k is scoped to, or "" for shared keys.
func (k Key) Principal() string {
	s := string(k)
	last := s[strings.LastIndex(s, keySep)+1:]
	if !strings.HasPrefix(last, principalMark) {
		return ""
	}
	p, err := url.QueryUnescape(last[len(principalMark):])
	if err != nil {
		return ""
	}
	return p
}

// Resource returns the first segment, used as a low-cardinality label.
func (k Key) Resource() string {
	r, _, _ := strings.Cut(string(k), keySep)
	return r
}

// HasPrefix reports whether prefix equals k or is a leading run of its
// segments.
func (k Key) HasPrefix(prefix Key) bool {
	if prefix == "" {
		return false
	}
	if k == prefix {
		return true
	}
	return strings.HasPrefix(string(k), string(prefix)+keySep)
}

func (k Key) String() string { return string(k) }

func matchesAny(k Key, prefixes []Key) bool {
	for _, p := range prefixes {
		if k.HasPrefix(p) {
			return true
		}
	}
	return false
}
