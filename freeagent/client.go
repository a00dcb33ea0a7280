// Package freeagent is the entry point of the client: typed, cached
// resources for every supported endpoint and the reports built on top of
// them.
package freeagent

import (
	"github.com/goliatone/go-freeagent/cache"
	"github.com/goliatone/go-freeagent/model"
	"github.com/goliatone/go-freeagent/resourcecache"
	"github.com/goliatone/go-freeagent/rest"
	"github.com/goliatone/go-freeagent/revenue"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client exposes one cached resource per endpoint. All resources share a
// single cache store.
type Client struct {
	Contacts      rest.Resource[model.Contact]
	Projects      rest.Resource[model.Project]
	Tasks         rest.Resource[model.Task]
	Timeslips     rest.Resource[model.Timeslip]
	Users         rest.Resource[model.User]
	Estimates     rest.Resource[model.Estimate]
	Invoices      rest.Resource[model.Invoice]
	Bills         rest.Resource[model.Bill]
	CISBands      rest.Resource[model.CISBand]
	SalesTaxRates rest.Resource[model.SalesTaxRate]

	store  cache.Store
	logger zerolog.Logger
	onSkip revenue.SkipFunc
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSkipHandler receives estimates left out of MonthlyRevenue.
func WithSkipHandler(fn revenue.SkipFunc) Option {
	return func(c *Client) {
		c.onSkip = fn
	}
}

// New builds the typed resources over api, caching reads in store.
func New(api *rest.Client, store cache.Store, opts ...Option) *Client {
	c := &Client{
		store:  store,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "freeagent").Logger()

	keys := cache.NewDefaultKeySerializer()
	cacheOpts := []resourcecache.Option{resourcecache.WithLogger(c.logger)}

	c.Contacts = cached[model.Contact](api, ContactsEndpoint, store, keys, cacheOpts)
	c.Projects = cached[model.Project](api, ProjectsEndpoint, store, keys, cacheOpts)
	c.Tasks = cached[model.Task](api, TasksEndpoint, store, keys, cacheOpts)
	c.Timeslips = cached[model.Timeslip](api, TimeslipsEndpoint, store, keys, cacheOpts)
	c.Users = cached[model.User](api, UsersEndpoint, store, keys, cacheOpts)
	c.Estimates = cached[model.Estimate](api, EstimatesEndpoint, store, keys, cacheOpts)
	c.Invoices = cached[model.Invoice](api, InvoicesEndpoint, store, keys, cacheOpts)
	c.Bills = cached[model.Bill](api, BillsEndpoint, store, keys, cacheOpts)
	c.CISBands = cached[model.CISBand](api, CISBandsEndpoint, store, keys, cacheOpts)
	c.SalesTaxRates = cached[model.SalesTaxRate](api, SalesTaxRatesEndpoint, store, keys, cacheOpts)

	return c
}

// Store returns the shared cache store.
func (c *Client) Store() cache.Store {
	return c.store
}

func cached[T any](api *rest.Client, ep rest.Endpoint, store cache.Store, keys cache.KeySerializer, opts []resourcecache.Option) rest.Resource[T] {
	return resourcecache.New[T](rest.New[T](api, ep), store, keys, opts...)
}
