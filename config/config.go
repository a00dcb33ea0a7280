// Package config loads client settings from FREEAGENT_ prefixed environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-freeagent/cache"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is the environment variable prefix, e.g. FREEAGENT_ACCESS_TOKEN.
const Prefix = "FREEAGENT"

// Config holds transport, paging and cache settings.
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"https://api.freeagent.com/v2"`
	AccessToken string        `envconfig:"ACCESS_TOKEN"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"go-freeagent"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`

	// Retries of recoverable failures (429, 5xx, network errors).
	MaxRetries       int           `envconfig:"MAX_RETRIES" default:"3"`
	RetryBaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"200ms"`
	RetryMaxInterval time.Duration `envconfig:"RETRY_MAX_INTERVAL" default:"5s"`

	PerPage int `envconfig:"PER_PAGE" default:"100"`

	CacheCapacity           int           `envconfig:"CACHE_CAPACITY" default:"10000"`
	CacheNumShards          int           `envconfig:"CACHE_NUM_SHARDS" default:"256"`
	CacheEvictionPercentage int           `envconfig:"CACHE_EVICTION_PERCENTAGE" default:"10"`
	CacheBusinessTTL        time.Duration `envconfig:"CACHE_BUSINESS_TTL" default:"5m"`
	CacheReferenceTTL       time.Duration `envconfig:"CACHE_REFERENCE_TTL" default:"6h"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Debug().
		Str("base_url", cfg.BaseURL).
		Bool("token_present", cfg.AccessToken != "").
		Int("per_page", cfg.PerPage).
		Int("max_retries", cfg.MaxRetries).
		Dur("business_ttl", cfg.CacheBusinessTTL).
		Dur("reference_ttl", cfg.CacheReferenceTTL).
		Msg("configuration loaded")

	return &cfg, nil
}

// Validate checks ranges and required values. The access token is not
// required here since callers may install their own authorizer.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryBaseDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryMaxInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.PerPage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.CacheCapacity, validation.Required, validation.Min(1)),
		validation.Field(&c.CacheNumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.CacheEvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.CacheBusinessTTL, validation.Required),
		validation.Field(&c.CacheReferenceTTL, validation.Required),
	)
}

// CacheConfig maps the cache settings onto cache.Config.
func (c Config) CacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Capacity = c.CacheCapacity
	cfg.NumShards = c.CacheNumShards
	cfg.EvictionPercentage = c.CacheEvictionPercentage
	cfg.BusinessTTL = c.CacheBusinessTTL
	cfg.ReferenceTTL = c.CacheReferenceTTL
	return cfg
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}
