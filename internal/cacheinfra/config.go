package cacheinfra

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the tiered store.
type Config struct {
	// Capacity defines the maximum number of entries per tier.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards of the reference tier.
	// Must be greater than 0. Default: 256
	NumShards int

	// EvictionPercentage specifies what percentage of reference entries to
	// evict when that tier reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// BusinessTTL is the sliding window of business entries: an entry
	// expires BusinessTTL after it was last written or read.
	BusinessTTL time.Duration

	// ReferenceTTL is the fixed lifetime of reference entries.
	ReferenceTTL time.Duration

	// EvictionInterval sets how often the reference tier sweeps expired
	// entries. Zero value uses the sturdyc default.
	EvictionInterval time.Duration

	// Clock replaces wall-clock time in both tiers. Nil uses time.Now.
	Clock sturdyc.Clock

	// Logger receives invalidation events. Nil uses the global logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		EvictionPercentage: 10,
		BusinessTTL:        5 * time.Minute,
		ReferenceTTL:       6 * time.Hour,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to the sturdyc options of the
// reference tier. Capacity, NumShards, ReferenceTTL and EvictionPercentage
// are passed directly to sturdyc.New().
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	if c.Clock != nil {
		options = append(options, sturdyc.WithClock(c.Clock))
	}

	return options
}

// Validate checks if the configuration values are valid.
// Returns an error if any configuration parameter is invalid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.NumShards > c.Capacity {
		return &ConfigError{Field: "NumShards", Message: "must not exceed Capacity"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.BusinessTTL <= 0 {
		return &ConfigError{Field: "BusinessTTL", Message: "must be greater than 0"}
	}

	if c.ReferenceTTL <= 0 {
		return &ConfigError{Field: "ReferenceTTL", Message: "must be greater than 0"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
