package paging

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-freeagent/transport"
)

// Decoder turns one response into a page.
type Decoder[T any] interface {
	Decode(resp *transport.Response) (Page[T], error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[T any] func(resp *transport.Response) (Page[T], error)

// Decode calls f.
func (f DecoderFunc[T]) Decode(resp *transport.Response) (Page[T], error) {
	return f(resp)
}

// EnvelopeDecoder decodes JSON objects that carry the items under one key,
// e.g. {"bills": [...]}. The next reference comes from the Link header
// (rel="next"); when NextField is set and the header is absent, the string
// under that body key is used instead.
type EnvelopeDecoder[T any] struct {
	Key       string
	NextField string
}

// NewEnvelopeDecoder returns a decoder for items stored under key.
func NewEnvelopeDecoder[T any](key string) EnvelopeDecoder[T] {
	return EnvelopeDecoder[T]{Key: key}
}

// Decode implements Decoder.
func (d EnvelopeDecoder[T]) Decode(resp *transport.Response) (Page[T], error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return Page[T]{}, fmt.Errorf("envelope: %w", err)
	}

	raw, ok := envelope[d.Key]
	if !ok {
		return Page[T]{}, fmt.Errorf("envelope has no %q key", d.Key)
	}

	var items []T
	if string(raw) != "null" {
		if err := json.Unmarshal(raw, &items); err != nil {
			return Page[T]{}, fmt.Errorf("envelope %q: %w", d.Key, err)
		}
	}

	next := NextLink(resp.Header)
	if next == "" && d.NextField != "" {
		if rawNext, ok := envelope[d.NextField]; ok && string(rawNext) != "null" {
			if err := json.Unmarshal(rawNext, &next); err != nil {
				return Page[T]{}, fmt.Errorf("envelope %q: %w", d.NextField, err)
			}
		}
	}

	return Page[T]{Items: items, Next: next}, nil
}

// NextLink extracts the rel="next" target of RFC 8288 Link headers. Both
// quote styles are accepted since the API emits rel='next'.
func NextLink(h http.Header) string {
	for _, header := range h.Values("Link") {
		for _, link := range strings.Split(header, ",") {
			segments := strings.Split(link, ";")
			if len(segments) < 2 {
				continue
			}
			target := strings.TrimSpace(segments[0])
			if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
				continue
			}
			for _, param := range segments[1:] {
				key, value, found := strings.Cut(strings.TrimSpace(param), "=")
				if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
					continue
				}
				value = strings.Trim(strings.TrimSpace(value), `"'`)
				for _, rel := range strings.Fields(value) {
					if strings.EqualFold(rel, "next") {
						return target[1 : len(target)-1]
					}
				}
			}
		}
	}
	return ""
}
