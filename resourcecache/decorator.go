package resourcecache

import (
	"context"
	"net/url"

	"github.com/goliatone/go-freeagent/cache"
	"github.com/goliatone/go-freeagent/rest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Interface assertion to ensure CachedResource implements rest.Resource[T]
var _ rest.Resource[any] = (*CachedResource[any])(nil)

// CachedResource decorates a base resource with read-through caching and
// group invalidation after writes.
type CachedResource[T any] struct {
	base          rest.Resource[T]
	store         cache.Store
	keySerializer cache.KeySerializer
	logger        zerolog.Logger
}

// Option configures a CachedResource.
type Option func(*options)

type options struct {
	logger *zerolog.Logger
}

// WithLogger sets the logger used for invalidation events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// New creates a new CachedResource that wraps the base resource with caching
func New[T any](base rest.Resource[T], store cache.Store, keySerializer cache.KeySerializer, opts ...Option) *CachedResource[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}
	if keySerializer == nil {
		keySerializer = cache.NewDefaultKeySerializer()
	}

	return &CachedResource[T]{
		base:          base,
		store:         store,
		keySerializer: keySerializer,
		logger:        logger.With().Str("resource", base.Endpoint().Name).Logger(),
	}
}

// Endpoint returns the endpoint of the base resource.
func (c *CachedResource[T]) Endpoint() rest.Endpoint {
	return c.base.Endpoint()
}

// List retrieves one page, with caching. Single pages and full listings of
// the same query are cached under different keys.
func (c *CachedResource[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	ep := c.base.Endpoint()
	key := cache.Join(c.keySerializer.SerializeKey(ep.Name, params), "page")
	return cache.GetOrFetch(ctx, c.store, key, ep.Policy, func(ctx context.Context) ([]T, error) {
		return c.base.List(ctx, params)
	})
}

// ListAll retrieves every page of a query, with caching
func (c *CachedResource[T]) ListAll(ctx context.Context, params url.Values) ([]T, error) {
	ep := c.base.Endpoint()
	key := c.keySerializer.SerializeKey(ep.Name, params)
	return cache.GetOrFetch(ctx, c.store, key, ep.Policy, func(ctx context.Context) ([]T, error) {
		return c.base.ListAll(ctx, params)
	})
}

// Get retrieves one record by id or URL, with caching. Not-found results are
// not cached.
func (c *CachedResource[T]) Get(ctx context.Context, idOrURL string, params url.Values) (T, error) {
	ep := c.base.Endpoint()
	key := c.keySerializer.SerializeKey(ep.ItemPath(idOrURL), params)
	return cache.GetOrFetch(ctx, c.store, key, ep.Policy, func(ctx context.Context) (T, error) {
		return c.base.Get(ctx, idOrURL, params)
	})
}

// Create creates a record and invalidates the resource family.
func (c *CachedResource[T]) Create(ctx context.Context, record T) (T, error) {
	result, err := c.base.Create(ctx, record)
	if err == nil {
		c.invalidateAfterWrite(ctx)
	}
	return result, err
}

// Update updates a record and invalidates the resource family.
func (c *CachedResource[T]) Update(ctx context.Context, idOrURL string, record T) (T, error) {
	result, err := c.base.Update(ctx, idOrURL, record)
	if err == nil {
		c.invalidateAfterWrite(ctx)
	}
	return result, err
}

// Delete deletes a record and invalidates the resource family.
func (c *CachedResource[T]) Delete(ctx context.Context, idOrURL string) error {
	err := c.base.Delete(ctx, idOrURL)
	if err == nil {
		c.invalidateAfterWrite(ctx)
	}
	return err
}

// Invalidate drops every cached query of this resource and returns how many
// entries were removed.
func (c *CachedResource[T]) Invalidate() int {
	return c.store.InvalidateGroup(c.base.Endpoint().Name)
}

// invalidateAfterWrite drops the resource family plus any groups attached to
// ctx with WithInvalidationGroups. Groups are removed one after the other; a
// concurrent reader can observe some already gone and others still cached.
func (c *CachedResource[T]) invalidateAfterWrite(ctx context.Context) {
	groups := append([]string{c.base.Endpoint().Name}, invalidationGroupsFromContext(ctx)...)
	for _, group := range dedupeStrings(groups) {
		removed := c.store.InvalidateGroup(group)
		c.logger.Debug().Str("group", group).Int("removed", removed).Msg("invalidated after write")
	}
}
