package rest

import (
	"testing"

	"github.com/goliatone/go-freeagent/cache"
	"github.com/stretchr/testify/assert"
)

func TestNewEndpoint(t *testing.T) {
	tests := []struct {
		resource string
		name     string
		singular string
	}{
		{"bills", "bills", "bill"},
		{"Contact", "contacts", "contact"},
		{"SalesTaxRate", "sales_tax_rates", "sales_tax_rate"},
		{"sales tax rate", "sales_tax_rates", "sales_tax_rate"},
		{"timeslip", "timeslips", "timeslip"},
		{"invoices", "invoices", "invoice"},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			ep := NewEndpoint(tt.resource, cache.PolicyBusiness)
			assert.Equal(t, tt.name, ep.Name)
			assert.Equal(t, tt.name, ep.CollectionKey)
			assert.Equal(t, tt.singular, ep.SingularKey)
			assert.Equal(t, cache.PolicyBusiness, ep.Policy)
		})
	}
}

func TestEndpoint_WithCollectionKey(t *testing.T) {
	base := NewEndpoint("cis_bands", cache.PolicyReference)
	ep := base.WithCollectionKey("available_bands")

	assert.Equal(t, "available_bands", ep.collectionKey())
	assert.Equal(t, "cis_bands", base.collectionKey(), "original is not modified")
	assert.Equal(t, "cis_band", ep.singularKey())
}

func TestEndpoint_DefaultsForZeroKeys(t *testing.T) {
	ep := Endpoint{Name: "projects"}
	assert.Equal(t, "projects", ep.collectionKey())
	assert.Equal(t, "project", ep.singularKey())
}

func TestEndpoint_ItemPath(t *testing.T) {
	ep := NewEndpoint("bills", cache.PolicyBusiness)

	assert.Equal(t, "bills/42", ep.ItemPath("42"))
	assert.Equal(t, "bills/42", ep.ItemPath("/42/"))
	assert.Equal(t, "bills/42", ep.ItemPath("https://api.freeagent.com/v2/bills/42"))
	assert.Equal(t, "bills/42", ep.ItemPath("https://api.freeagent.com/v2/bills/42/"))
}
