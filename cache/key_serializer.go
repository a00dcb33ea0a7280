package cache

import (
	"net/url"
	"sort"
	"strings"
)

// KeySeparator joins a resource family to extra key segments that are not
// part of the endpoint path (e.g. "projects::with_contacts").
const KeySeparator = "::"

// KeySerializer builds a cache key from an endpoint path and query parameters.
// Semantically identical queries must map to the same key and distinct
// parameter combinations must never collide.
type KeySerializer interface {
	SerializeKey(endpoint string, params url.Values) string
}

// defaultKeySerializer renders "<endpoint>?<canonical query>". Parameter names
// are sorted, values of a repeated parameter are sorted, and everything is
// query-escaped so separators inside values cannot forge another key.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey implements KeySerializer. Leading and trailing slashes of the
// endpoint are dropped; empty parameter values are kept since "view=" and no
// view are different queries.
func (s *defaultKeySerializer) SerializeKey(endpoint string, params url.Values) string {
	endpoint = strings.Trim(endpoint, "/")
	if len(params) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte('?')
	first := true
	for _, name := range names {
		values := append([]string(nil), params[name]...)
		sort.Strings(values)
		if len(values) == 0 {
			values = []string{""}
		}
		for _, v := range values {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(url.QueryEscape(name))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Join appends extra segments to a key with KeySeparator.
func Join(key string, segments ...string) string {
	if len(segments) == 0 {
		return key
	}
	return key + KeySeparator + strings.Join(segments, KeySeparator)
}
