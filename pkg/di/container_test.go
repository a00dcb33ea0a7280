package di

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goliatone/go-freeagent/cache"
	"github.com/goliatone/go-freeagent/config"
	"github.com/goliatone/go-freeagent/model"
	"github.com/goliatone/go-freeagent/pkg/testsupport"
	"github.com/goliatone/go-freeagent/rest"
	"github.com/rs/zerolog"
)

func testConfig() config.Config {
	return config.Config{
		BaseURL:                 "https://api.test/v2",
		AccessToken:             "token",
		UserAgent:               "go-freeagent-test",
		Timeout:                 5 * time.Second,
		MaxRetries:              0,
		PerPage:                 50,
		CacheCapacity:           1000,
		CacheNumShards:          16,
		CacheEvictionPercentage: 10,
		CacheBusinessTTL:        5 * time.Minute,
		CacheReferenceTTL:       6 * time.Hour,
	}
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()

	container, err := NewContainer(cfg, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.Store() == nil {
		t.Error("Container should have a non-nil store")
	}
	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if container.Client() == nil {
		t.Error("Container should have a non-nil client")
	}

	if got := container.API().BaseURL(); got != cfg.BaseURL {
		t.Errorf("Expected base URL %q, got %q", cfg.BaseURL, got)
	}

	stored := container.Config()
	if stored.CacheCapacity != cfg.CacheCapacity {
		t.Errorf("Expected capacity %d, got %d", cfg.CacheCapacity, stored.CacheCapacity)
	}
	if stored.CacheBusinessTTL != cfg.CacheBusinessTTL {
		t.Errorf("Expected business TTL %v, got %v", cfg.CacheBusinessTTL, stored.CacheBusinessTTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero capacity", func(c *config.Config) { c.CacheCapacity = 0 }},
		{"per page out of range", func(c *config.Config) { c.PerPage = 101 }},
		{"missing base url", func(c *config.Config) { c.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := NewContainer(cfg); err == nil {
				t.Error("NewContainer() should fail with invalid config")
			}
		})
	}
}

func TestNewContainerFromEnv(t *testing.T) {
	t.Setenv("FREEAGENT_BASE_URL", "https://api.sandbox.test/v2")
	t.Setenv("FREEAGENT_PER_PAGE", "10")

	container, err := NewContainerFromEnv(WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainerFromEnv() failed: %v", err)
	}
	if got := container.Config().PerPage; got != 10 {
		t.Errorf("Expected per page 10, got %d", got)
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainer(testConfig(), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.Store() != container.Store() {
		t.Error("Store() should return the same instance")
	}
	if container.Client() != container.Client() {
		t.Error("Client() should return the same instance")
	}
}

func TestContainer_UsesInjectedTransport(t *testing.T) {
	tr := testsupport.NewScriptedTransport()
	tr.Page("https://api.test/v2/users?per_page=50", `{"users":[{"url":"https://api.test/v2/users/1","first_name":"Ada"}]}`, "")

	container, err := NewContainer(testConfig(), WithTransport(tr), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		users, err := container.Client().Users.ListAll(ctx, nil)
		if err != nil {
			t.Fatalf("ListAll() failed: %v", err)
		}
		if len(users) != 1 || users[0].FirstName != "Ada" {
			t.Fatalf("unexpected users %+v", users)
		}
	}

	if n := tr.CallCount("https://api.test/v2/users?per_page=50"); n != 1 {
		t.Errorf("Expected 1 transport call, got %d", n)
	}
}

func TestNewCachedResource_SharesStore(t *testing.T) {
	tr := testsupport.NewScriptedTransport()
	tr.Page("https://api.test/v2/credit_notes?per_page=50", `{"credit_notes":[{"url":"https://api.test/v2/credit_notes/1","reference":"CN1"}]}`, "")
	tr.On(http.MethodDelete, "https://api.test/v2/credit_notes/1", testsupport.Route{Status: http.StatusOK})

	container, err := NewContainer(testConfig(), WithTransport(tr), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	notes := NewCachedResource[model.Invoice](container, rest.NewEndpoint("credit_notes", cache.PolicyBusiness))

	ctx := context.Background()
	if _, err := notes.ListAll(ctx, nil); err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if _, ok := container.Store().Get("credit_notes"); !ok {
		t.Fatal("expected listing to be cached in the container store")
	}

	if err := notes.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok := container.Store().Get("credit_notes"); ok {
		t.Error("expected delete to invalidate the credit_notes family")
	}
}
