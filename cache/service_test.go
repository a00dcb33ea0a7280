package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/viccon/sturdyc"
)

type invoice struct {
	URL   string
	Total string
	Items []string
}

func newTestStore(t *testing.T) Store {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Capacity = 100
	cfg.NumShards = 2
	cfg.Clock = sturdyc.NewTestClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (invoice, error) {
		calls++
		return invoice{URL: "https://api.example.com/v2/invoices/1", Total: "120.00"}, nil
	}

	first, err := GetOrFetch(ctx, store, "invoices/1", PolicyBusiness, fetch)
	if err != nil {
		t.Fatalf("first GetOrFetch() failed: %v", err)
	}
	second, err := GetOrFetch(ctx, store, "invoices/1", PolicyBusiness, fetch)
	if err != nil {
		t.Fatalf("second GetOrFetch() failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected fetch to run once, ran %d times", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected cached value %+v, got %+v", first, second)
	}
}

func TestGetOrFetch_ReturnsIndependentCopies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fetch := func(ctx context.Context) ([]invoice, error) {
		return []invoice{{URL: "a", Items: []string{"x"}}}, nil
	}

	original, err := GetOrFetch(ctx, store, "invoices", PolicyBusiness, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	original[0].URL = "mutated"
	original[0].Items[0] = "mutated"

	cached, err := GetOrFetch(ctx, store, "invoices", PolicyBusiness, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if cached[0].URL != "a" || cached[0].Items[0] != "x" {
		t.Errorf("cached entry changed through the fetched value: %+v", cached[0])
	}

	cached[0].URL = "changed again"
	again, err := GetOrFetch(ctx, store, "invoices", PolicyBusiness, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if again[0].URL != "a" {
		t.Errorf("cached entry changed through a hit: %+v", again[0])
	}
}

func TestGetOrFetch_ErrorsAreNotCached(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	calls := 0
	_, err := GetOrFetch(ctx, store, "bills", PolicyBusiness, func(ctx context.Context) ([]invoice, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	if _, ok := store.Get("bills"); ok {
		t.Error("failed fetch must not be cached")
	}

	_, err = GetOrFetch(ctx, store, "bills", PolicyBusiness, func(ctx context.Context) ([]invoice, error) {
		calls++
		return []invoice{}, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 fetches, got %d", calls)
	}
}

func TestGetOrFetch_InvalidCachedValue(t *testing.T) {
	store := newTestStore(t)
	store.Set("contacts", "not a snapshot", PolicyBusiness)

	_, err := GetOrFetch(context.Background(), store, "contacts", PolicyBusiness, func(ctx context.Context) ([]invoice, error) {
		t.Fatal("fetch must not run on a hit")
		return nil, nil
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType, got %v", err)
	}
}

func TestGetOrFetch_ReferencePolicy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := GetOrFetch(ctx, store, "cis_bands", PolicyReference, func(ctx context.Context) ([]string, error) {
		return []string{"basic", "higher"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}

	bands, err := GetOrFetch(ctx, store, "cis_bands", PolicyReference, func(ctx context.Context) ([]string, error) {
		return nil, errors.New("should be served from cache")
	})
	if err != nil {
		t.Fatalf("expected a cache hit, got %v", err)
	}
	if !reflect.DeepEqual(bands, []string{"basic", "higher"}) {
		t.Errorf("unexpected bands %v", bands)
	}
}

func TestNewStore_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BusinessTTL = 0

	store, err := NewStore(cfg)
	if err == nil {
		t.Error("NewStore() should fail with invalid config")
	}
	if store != nil {
		t.Errorf("expected nil store, got %T", store)
	}
}

func TestConfig_DefaultIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}
