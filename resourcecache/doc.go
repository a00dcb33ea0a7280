// Package resourcecache adds caching to rest resources.
//
// # Overview
//
// CachedResource wraps a rest.Resource[T] and intercepts reads to serve them
// from a cache.Store, while writes go straight to the API and then
// invalidate the cache group of the resource.
//
// # Basic Usage
//
//	store, _ := cache.NewStore(cache.DefaultConfig())
//	client := rest.NewClient(transport.NewHTTPTransport(...))
//	bills := resourcecache.New(
//		rest.New[model.Bill](client, rest.NewEndpoint("bills", cache.PolicyBusiness)),
//		store,
//		cache.NewDefaultKeySerializer(),
//	)
//
//	open, err := bills.ListAll(ctx, url.Values{"view": {"open"}})
//	bill, err := bills.Get(ctx, "42", nil)
//
// # Cached vs Pass-through Operations
//
// Cached: List, ListAll and Get. Keys are built from the endpoint path and
// the canonical query, so "bills?view=open" and "bills/42" are distinct
// entries of the "bills" group. The endpoint's cache.Policy decides between
// the sliding business TTL and the fixed reference TTL.
//
// Pass-through: Create, Update and Delete. After a successful write every
// entry of the resource group is dropped (list views, filtered views and
// by-id views alike). Extra groups can ride along on the context:
//
//	ctx = resourcecache.WithInvalidationGroups(ctx, "projects")
//	_, err = contacts.Update(ctx, contactURL, contact)
//
// # Consistency
//
// Invalidation is not atomic. Entries are removed one at a time, and keys
// outside the invalidated groups keep serving what they cached until they
// expire. A write followed by a read of such a key can return stale data.
//
// Failed reads are never cached, not-found results included.
package resourcecache
