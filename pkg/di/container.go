package di

import (
	"net/http"

	"github.com/goliatone/go-freeagent/cache"
	"github.com/goliatone/go-freeagent/config"
	"github.com/goliatone/go-freeagent/freeagent"
	"github.com/goliatone/go-freeagent/resourcecache"
	"github.com/goliatone/go-freeagent/rest"
	"github.com/goliatone/go-freeagent/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Container wires the client from a Config: one cache store and one key
// serializer shared by every cached resource, the HTTP transport and the
// typed FreeAgent client on top.
type Container struct {
	config        config.Config
	store         cache.Store
	keySerializer cache.KeySerializer
	transport     transport.Transport
	api           *rest.Client
	client        *freeagent.Client
	logger        zerolog.Logger
}

// Option adjusts how the container builds its components.
type Option func(*options)

type options struct {
	transport  transport.Transport
	authorizer transport.Authorizer
	httpClient *http.Client
	logger     *zerolog.Logger
	clientOpts []freeagent.Option
}

// WithTransport replaces the HTTP transport altogether. Retry, debug and
// authorization settings of the config are then ignored.
func WithTransport(t transport.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithAuthorizer overrides the static token authorizer built from
// Config.AccessToken, e.g. with an oauth2 refreshing token source.
func WithAuthorizer(a transport.Authorizer) Option {
	return func(o *options) {
		o.authorizer = a
	}
}

// WithHTTPClient sets the http.Client used by the transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithClientOptions forwards options to freeagent.New.
func WithClientOptions(opts ...freeagent.Option) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// NewContainer validates cfg and builds every component.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}

	cacheConfig := cfg.CacheConfig()
	cacheConfig.Logger = &logger
	store, err := cache.NewStore(cacheConfig)
	if err != nil {
		return nil, err
	}

	tr := o.transport
	if tr == nil {
		tr = newHTTPTransport(cfg, o, logger)
	}

	api := rest.NewClient(tr,
		rest.WithBaseURL(cfg.BaseURL),
		rest.WithPerPage(cfg.PerPage),
		rest.WithLogger(logger),
	)

	clientOpts := append([]freeagent.Option{freeagent.WithLogger(logger)}, o.clientOpts...)

	return &Container{
		config:        cfg,
		store:         store,
		keySerializer: cache.NewDefaultKeySerializer(),
		transport:     tr,
		api:           api,
		client:        freeagent.New(api, store, clientOpts...),
		logger:        logger,
	}, nil
}

// NewContainerFromEnv loads the config from FREEAGENT_ environment variables.
func NewContainerFromEnv(opts ...Option) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewContainer(*cfg, opts...)
}

func newHTTPTransport(cfg config.Config, o *options, logger zerolog.Logger) *transport.HTTPTransport {
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	auth := o.authorizer
	if auth == nil && cfg.AccessToken != "" {
		auth = transport.NewStaticTokenAuthorizer(cfg.AccessToken)
	}

	topts := []transport.Option{
		transport.WithHTTPClient(httpClient),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithRetry(cfg.MaxRetries, cfg.RetryBaseDelay, cfg.RetryMaxInterval),
		transport.WithDebug(cfg.Debug),
		transport.WithLogger(logger),
	}
	if auth != nil {
		topts = append(topts, transport.WithAuthorizer(auth))
	}
	return transport.NewHTTPTransport(topts...)
}

// Client returns the typed FreeAgent client.
func (c *Container) Client() *freeagent.Client {
	return c.client
}

// Store returns the shared cache store.
func (c *Container) Store() cache.Store {
	return c.store
}

// KeySerializer returns the key serializer shared by cached resources.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// API returns the REST client every resource is built on.
func (c *Container) API() *rest.Client {
	return c.api
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// NewCachedResource builds a cached resource for an endpoint the typed client
// does not cover. It shares the container's store, so writes through it
// invalidate the same family as the typed resources.
//
// Example: NewCachedResource[model.Invoice](container, rest.NewEndpoint("credit_notes", cache.PolicyBusiness))
func NewCachedResource[T any](c *Container, endpoint rest.Endpoint) *resourcecache.CachedResource[T] {
	return resourcecache.New[T](rest.New[T](c.api, endpoint), c.store, c.keySerializer,
		resourcecache.WithLogger(c.logger))
}
