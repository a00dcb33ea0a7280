// Package rest is the single CRUD-over-REST helper behind every typed
// resource of the client.
//
// A Resource[T] is parameterized by an Endpoint and speaks the API's JSON
// envelope convention: lists come back as {"<collection>": [...]} pages
// linked through rel="next", single records as {"<singular>": {...}}.
// Failures use the apierr taxonomy. Nothing here caches; see resourcecache.
package rest

import (
	"strings"

	"github.com/goliatone/go-freeagent/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.freeagent.com/v2"

// DefaultPerPage is the page size requested by ListAll.
const DefaultPerPage = 100

// Client holds what every resource shares: the API root, the transport and
// paging preferences.
type Client struct {
	baseURL   string
	transport transport.Transport
	perPage   int
	logger    zerolog.Logger
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithPerPage sets the per_page parameter ListAll adds when the caller did
// not. Values outside 1..100 are ignored.
func WithPerPage(n int) ClientOption {
	return func(c *Client) {
		if n >= 1 && n <= 100 {
			c.perPage = n
		}
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(tr transport.Transport, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		transport: tr,
		perPage:   DefaultPerPage,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Transport returns the transport shared by all resources.
func (c *Client) Transport() transport.Transport {
	return c.transport
}
