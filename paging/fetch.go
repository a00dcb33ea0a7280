// Package paging follows "next page" references of collection endpoints until
// the server stops handing them out.
//
// A fetch session is strict: every page must come back 2xx and decode
// cleanly, and a page reference may be visited once. Any failure discards the
// pages already collected. Pages are returned in arrival order and never
// re-sorted.
package paging

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-freeagent/apierr"
	"github.com/goliatone/go-freeagent/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxErrorBody bounds the response body copied into a RequestError.
const maxErrorBody = 512

// Page is one decoded response of a collection endpoint.
type Page[T any] struct {
	URL   string
	Items []T
	// Next is the exact reference of the following page, empty on the last page.
	Next string
}

type options struct {
	logger zerolog.Logger
}

// Option configures a fetch session.
type Option func(*options)

// WithLogger sets the logger used for per-page debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// FetchAllPages requests initialURL and every page it links to, in order.
func FetchAllPages[T any](ctx context.Context, tr transport.Transport, initialURL string, dec Decoder[T], opts ...Option) ([]Page[T], error) {
	o := options{logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With().Str("fetch_session", uuid.NewString()).Logger()

	seen := newVisited()
	seen.add(initialURL)

	var pages []Page[T]
	next := initialURL
	for index := 0; next != ""; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := transport.Get(ctx, tr, next)
		if err != nil {
			return nil, pageRequestError(next, index, err)
		}
		if !resp.Success() {
			return nil, &apierr.RequestError{
				Method:     "GET",
				URL:        next,
				StatusCode: resp.StatusCode,
				PageIndex:  index,
				Body:       truncate(string(resp.Body), maxErrorBody),
			}
		}

		page, err := dec.Decode(resp)
		if err != nil {
			return nil, &apierr.DecodeError{Endpoint: next, StatusCode: resp.StatusCode, Err: err}
		}
		page.URL = next
		pages = append(pages, page)

		logger.Debug().
			Str("url", next).
			Int("page", index).
			Int("items", len(page.Items)).
			Bool("has_next", page.Next != "").
			Msg("fetched page")

		if page.Next != "" && !seen.add(page.Next) {
			return nil, &apierr.PageCycleError{URL: page.Next, PageIndex: index}
		}
		next = page.Next
	}

	return pages, nil
}

// FetchAll is FetchAllPages flattened into one item list.
func FetchAll[T any](ctx context.Context, tr transport.Transport, initialURL string, dec Decoder[T], opts ...Option) ([]T, error) {
	pages, err := FetchAllPages(ctx, tr, initialURL, dec, opts...)
	if err != nil {
		return nil, err
	}
	return Flatten(pages), nil
}

// Flatten concatenates page items in page order.
func Flatten[T any](pages []Page[T]) []T {
	total := 0
	for _, p := range pages {
		total += len(p.Items)
	}
	out := make([]T, 0, total)
	for _, p := range pages {
		out = append(out, p.Items...)
	}
	return out
}

func pageRequestError(url string, index int, err error) error {
	var reqErr *apierr.RequestError
	if errors.As(err, &reqErr) {
		cp := *reqErr
		cp.PageIndex = index
		return &cp
	}
	return &apierr.RequestError{Method: "GET", URL: url, PageIndex: index, Err: fmt.Errorf("send: %w", err)}
}

// visited tracks page references by xxhash fingerprint. Fingerprint hits are
// confirmed against the stored reference so collisions cannot end a session.
type visited struct {
	refs map[uint64][]string
}

func newVisited() *visited {
	return &visited{refs: make(map[uint64][]string)}
}

// add records ref and reports false if it was already present.
func (v *visited) add(ref string) bool {
	h := xxhash.Sum64String(ref)
	for _, existing := range v.refs[h] {
		if existing == ref {
			return false
		}
	}
	v.refs[h] = append(v.refs[h], ref)
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
