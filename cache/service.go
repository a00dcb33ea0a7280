package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-freeagent/internal/cacheinfra"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidResultType is returned when a cached value cannot be decoded into
// the type requested by GetOrFetch.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// Policy selects the expiration behaviour of an entry by data volatility.
type Policy = cacheinfra.Policy

const (
	// PolicyBusiness is for mutable business entities (invoices, projects,
	// bills): a short TTL that slides forward on every hit.
	PolicyBusiness = cacheinfra.PolicyBusiness

	// PolicyReference is for lookup data (tax rates, CIS bands): a long fixed
	// TTL that reads do not extend.
	PolicyReference = cacheinfra.PolicyReference
)

// Store is the process-wide keyed cache.
//
// It is safe for concurrent use. There are no cross-entry transactions: a
// group invalidation removes keys one at a time and a concurrent reader may
// observe a mix of fresh and stale entries while it runs.
type Store interface {
	// Get returns the value for key. A hit on a sliding entry pushes its
	// expiry forward by the sliding window; expiries never move backwards.
	Get(key string) (any, bool)
	// Set stores value unconditionally and (re)starts its TTL.
	Set(key string, value any, policy Policy)
	// Invalidate removes key. Absent keys are ignored.
	Invalidate(key string)
	// InvalidateGroup removes every key in the resource family group and
	// returns how many were removed. See InGroup.
	InvalidateGroup(group string) int
	// InvalidateMatching removes every key for which match returns true.
	InvalidateMatching(match func(key string) bool) int
}

// FetchFn is the function signature GetOrFetch expects when fetching from the API.
type FetchFn[T any] func(ctx context.Context) (T, error)

// GetOrFetch is a type-safe read-through over Store.
//
// Values are stored as msgpack snapshots, so every hit decodes a fresh copy
// and callers may mutate what they get back without touching the cached
// entry. Fetch errors are returned and nothing is cached.
func GetOrFetch[T any](ctx context.Context, store Store, key string, policy Policy, fetchFn FetchFn[T]) (T, error) {
	var zero T

	if raw, ok := store.Get(key); ok {
		snapshot, isBytes := raw.([]byte)
		if !isBytes {
			return zero, fmt.Errorf("%w: key %q holds %T", ErrInvalidResultType, key, raw)
		}
		var out T
		if err := msgpack.Unmarshal(snapshot, &out); err != nil {
			return zero, fmt.Errorf("%w: key %q: %v", ErrInvalidResultType, key, err)
		}
		return out, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		return zero, err
	}

	snapshot, err := msgpack.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("cache: snapshot %q: %w", key, err)
	}
	store.Set(key, snapshot, policy)

	return value, nil
}
