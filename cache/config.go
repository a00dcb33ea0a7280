package cache

import (
	"time"

	"github.com/goliatone/go-freeagent/internal/cacheinfra"
	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	EvictionPercentage int
	// BusinessTTL is the sliding window of PolicyBusiness entries.
	BusinessTTL time.Duration
	// ReferenceTTL is the fixed lifetime of PolicyReference entries.
	ReferenceTTL     time.Duration
	EvictionInterval time.Duration
	// Clock overrides wall-clock time for both tiers. Tests pass a
	// sturdyc.TestClock.
	Clock  sturdyc.Clock
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the default Store implementation using the provided configuration.
func NewStore(cfg Config) (Store, error) {
	store, err := cacheinfra.NewTieredStore(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}

var _ Store = (*cacheinfra.TieredStore)(nil)

// InGroup reports whether key belongs to the resource family group: the key
// is the group itself or continues it with "?", "/" or KeySeparator. "bills"
// contains "bills?view=open" and "bills/42" but not "bill_items".
func InGroup(key, group string) bool {
	return cacheinfra.InGroup(key, group)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		BusinessTTL:        c.BusinessTTL,
		ReferenceTTL:       c.ReferenceTTL,
		EvictionInterval:   c.EvictionInterval,
		Clock:              c.Clock,
		Logger:             c.Logger,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
		BusinessTTL:        cfg.BusinessTTL,
		ReferenceTTL:       cfg.ReferenceTTL,
		EvictionInterval:   cfg.EvictionInterval,
		Clock:              cfg.Clock,
		Logger:             cfg.Logger,
	}
}
