package cacheinfra

import (
	"strconv"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viccon/sturdyc"
)

// Separator mirrors cache.KeySeparator; kept here so the infrastructure
// package does not import its public facade.
const Separator = "::"

// Policy selects the tier of an entry. The public cache package re-exports it.
type Policy int

const (
	PolicyBusiness Policy = iota
	PolicyReference
)

// slidingEntry is owned by the sliding tier; callers only ever see value.
type slidingEntry struct {
	value     any
	expiresAt time.Time
	window    time.Duration
}

// TieredStore keeps business entries in a sliding-expiration table and
// reference entries in a fixed-TTL sturdyc client. A key lives in at most one
// tier: Set removes it from the other.
type TieredStore struct {
	sliding     *xsync.MapOf[string, slidingEntry]
	reference   *sturdyc.Client[any]
	businessTTL time.Duration
	capacity    int
	clock       sturdyc.Clock
	logger      zerolog.Logger
}

// NewTieredStore validates cfg and builds both tiers.
func NewTieredStore(cfg Config) (*TieredStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	reference := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.ReferenceTTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &TieredStore{
		sliding:     xsync.NewMapOf[string, slidingEntry](),
		reference:   reference,
		businessTTL: cfg.BusinessTTL,
		capacity:    cfg.Capacity,
		clock:       cfg.Clock,
		logger:      logger.With().Str("component", "cache").Logger(),
	}, nil
}

func (s *TieredStore) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now()
}

// Get looks the key up in the sliding tier first. A live sliding entry has its
// expiry moved to now+window inside the same atomic compute, so concurrent
// readers and writers never observe a half-updated entry. Expired entries
// are removed on sight.
func (s *TieredStore) Get(key string) (any, bool) {
	var (
		value   any
		found   bool
		expired bool
	)

	s.sliding.Compute(key, func(current slidingEntry, loaded bool) (slidingEntry, bool) {
		if !loaded {
			return current, true
		}
		now := s.now()
		if expiredAt(now, current.expiresAt) {
			expired = true
			return current, true
		}
		if extended := now.Add(current.window); extended.After(current.expiresAt) {
			current.expiresAt = extended
		}
		value, found = current.value, true
		return current, false
	})

	if found {
		cacheLookupsTotal.WithLabelValues(tierSliding, "hit").Inc()
		return value, true
	}
	if expired {
		cacheLookupsTotal.WithLabelValues(tierSliding, "expired").Inc()
	}

	if v, ok := s.reference.Get(key); ok {
		cacheLookupsTotal.WithLabelValues(tierReference, "hit").Inc()
		return v, true
	}

	cacheLookupsTotal.WithLabelValues(tierReference, "miss").Inc()
	return nil, false
}

// Set stores value under the tier selected by policy.
func (s *TieredStore) Set(key string, value any, policy Policy) {
	if policy == PolicyReference {
		s.sliding.Delete(key)
		s.reference.Set(key, value)
		return
	}

	s.reference.Delete(key)
	s.sliding.Store(key, slidingEntry{
		value:     value,
		expiresAt: s.now().Add(s.businessTTL),
		window:    s.businessTTL,
	})

	if s.sliding.Size() > s.capacity {
		s.purgeExpired()
	}
}

// ExpiresAt reports the current expiry of a sliding entry without extending it.
func (s *TieredStore) ExpiresAt(key string) (time.Time, bool) {
	e, ok := s.sliding.Load(key)
	if !ok {
		return time.Time{}, false
	}
	return e.expiresAt, true
}

// Invalidate removes key from both tiers.
func (s *TieredStore) Invalidate(key string) {
	s.sliding.Delete(key)
	s.reference.Delete(key)
	cacheInvalidationsTotal.Inc()
}

// InvalidateGroup removes every key belonging to group.
func (s *TieredStore) InvalidateGroup(group string) int {
	n := s.InvalidateMatching(func(key string) bool {
		return InGroup(key, group)
	})
	s.logger.Debug().Str("group", group).Int("removed", n).Msg("cache group invalidated")
	return n
}

// InvalidateMatching removes every key for which match returns true. Keys are
// deleted one by one; this is not atomic with respect to concurrent readers.
func (s *TieredStore) InvalidateMatching(match func(key string) bool) int {
	removed := 0

	var keys []string
	s.sliding.Range(func(key string, _ slidingEntry) bool {
		if match(key) {
			keys = append(keys, key)
		}
		return true
	})
	for _, key := range keys {
		if _, ok := s.sliding.LoadAndDelete(key); ok {
			removed++
		}
	}

	for _, key := range s.reference.ScanKeys() {
		if match(key) {
			s.reference.Delete(key)
			removed++
		}
	}

	cacheInvalidationsTotal.Add(float64(removed))
	return removed
}

// Size returns the number of entries held by both tiers, expired sliding
// entries included until they are swept.
func (s *TieredStore) Size() int {
	return s.sliding.Size() + s.reference.Size()
}

func (s *TieredStore) purgeExpired() {
	now := s.now()
	s.sliding.Range(func(key string, e slidingEntry) bool {
		if expiredAt(now, e.expiresAt) {
			s.sliding.Compute(key, func(current slidingEntry, loaded bool) (slidingEntry, bool) {
				return current, !loaded || expiredAt(now, current.expiresAt)
			})
		}
		return true
	})
}

// expiredAt reports whether an entry expiring at expiresAt is gone at now. The
// expiry instant itself is already past the entry's lifetime.
func expiredAt(now, expiresAt time.Time) bool {
	return !now.Before(expiresAt)
}

// InGroup reports whether key is group itself or one of its query, path or
// separator-joined variants.
func InGroup(key, group string) bool {
	if group == "" {
		return false
	}
	if key == group {
		return true
	}
	if !strings.HasPrefix(key, group) {
		return false
	}
	rest := key[len(group):]
	return strings.HasPrefix(rest, "?") || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, Separator)
}

func (p Policy) String() string {
	switch p {
	case PolicyBusiness:
		return "business"
	case PolicyReference:
		return "reference"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}
