package rest

import (
	"net/url"
	"path"
	"strings"

	"github.com/goliatone/go-freeagent/cache"
	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// Endpoint describes one collection of the API: where it lives, how its
// envelopes are keyed and which cache class its responses belong to.
type Endpoint struct {
	// Name is the collection path segment, e.g. "sales_tax_rates". It is
	// also the cache group invalidated after writes.
	Name string
	// CollectionKey is the envelope key of list responses. Defaults to Name.
	CollectionKey string
	// SingularKey is the envelope key of single-record bodies. Defaults to
	// the singular of Name.
	SingularKey string
	Policy      cache.Policy
}

// NewEndpoint derives an endpoint from a resource name. "SalesTaxRate",
// "sales tax rate" and "sales_tax_rates" all give the "sales_tax_rates"
// collection with "sales_tax_rate" records.
func NewEndpoint(resource string, policy cache.Policy) Endpoint {
	name := inflection.Plural(strcase.ToSnake(strings.TrimSpace(resource)))
	return Endpoint{
		Name:          name,
		CollectionKey: name,
		SingularKey:   inflection.Singular(name),
		Policy:        policy,
	}
}

// WithCollectionKey returns a copy of e whose list envelopes use key, for
// endpoints such as cis_bands that answer with {"available_bands": [...]}.
func (e Endpoint) WithCollectionKey(key string) Endpoint {
	e.CollectionKey = key
	return e
}

func (e Endpoint) collectionKey() string {
	if e.CollectionKey != "" {
		return e.CollectionKey
	}
	return e.Name
}

func (e Endpoint) singularKey() string {
	if e.SingularKey != "" {
		return e.SingularKey
	}
	return inflection.Singular(e.Name)
}

// ItemPath returns the "<name>/<id>" path for a record id or record URL. The
// id of a URL is its last path segment.
func (e Endpoint) ItemPath(idOrURL string) string {
	return e.Name + "/" + itemID(idOrURL)
}

func itemID(idOrURL string) string {
	idOrURL = strings.TrimSpace(idOrURL)
	if !isAbsolute(idOrURL) {
		return strings.Trim(idOrURL, "/")
	}
	u, err := url.Parse(idOrURL)
	if err != nil {
		return idOrURL
	}
	return path.Base(strings.TrimSuffix(u.Path, "/"))
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}
