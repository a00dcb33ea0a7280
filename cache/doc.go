// Package cache provides the process-wide response cache used by the
// resource wrappers and the key convention that addresses it.
//
// # Store
//
// Store maps a key to an opaque value. Each entry belongs to a volatility
// class chosen at Set time:
//
//   - PolicyBusiness: mutable entities (invoices, projects, bills). Short TTL
//     that slides forward on every successful read.
//   - PolicyReference: lookup data (tax rates, CIS bands). Long fixed TTL.
//
// Writes to a resource are followed by InvalidateGroup on its family so every
// cached query shape (list views, filtered views, by-id views) is dropped:
//
//	store.InvalidateGroup("bills") // drops "bills", "bills?view=open", "bills/42"
//
// Invalidation is key by key. A reader racing an invalidation can see some
// keys of a family already gone and others still cached; a write followed by
// a read of a key that was not invalidated may return stale data until the
// entry expires.
//
// # Keys
//
// Keys are "<endpoint>?<canonical query>" as produced by KeySerializer:
//
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("bills", url.Values{"view": {"open"}, "page": {"2"}})
//	// bills?page=2&view=open
//
// Join appends derived segments ("projects::with_contacts") that still belong
// to the "projects" group.
//
// # Read-through
//
// GetOrFetch wraps a fetch function with the store. Values are kept as
// msgpack snapshots, so each hit decodes a fresh copy the caller owns:
//
//	projects, err := cache.GetOrFetch(ctx, store, key, cache.PolicyBusiness,
//		func(ctx context.Context) ([]model.Project, error) {
//			return api.ListAll(ctx, params)
//		})
//
// Types stored this way must round-trip through msgpack: exported fields,
// no channels or funcs.
package cache
