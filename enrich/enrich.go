// Package enrich joins independently fetched collections in memory.
//
// Records point at each other through canonical URLs. Enrich resolves those
// references by exact string equality against the Identity of the related
// records; it never follows a link over the network. Inputs are never
// modified and every call builds new records.
package enrich

import (
	"golang.org/x/sync/errgroup"
)

// Joinable is any record that can take part in a join.
type Joinable interface {
	// Identity is the canonical identifier other records use to refer to
	// this one.
	Identity() string
	// Ref returns the identifier held for relation, or "" when the record
	// has no such reference.
	Ref(relation string) string
}

// Record is a primary record with at most one related record per relation.
type Record struct {
	Primary Joinable
	related map[string]Joinable
}

// Related returns the record joined under relation. A missing relation is
// reported with ok=false; it is not an error.
func (r Record) Related(relation string) (Joinable, bool) {
	j, ok := r.related[relation]
	return j, ok
}

// Relations returns the names of the relations that matched.
func (r Record) Relations() []string {
	names := make([]string, 0, len(r.related))
	for name := range r.related {
		names = append(names, name)
	}
	return names
}

// Index maps identity to record. When two records share an identity the
// first one wins.
func Index[T Joinable](items []T) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		id := item.Identity()
		if id == "" {
			continue
		}
		if _, exists := index[id]; !exists {
			index[id] = item
		}
	}
	return index
}

// Enrich resolves every relation in related for every primary record.
//
// The indexes for different relations are built concurrently; they only read
// from related. Output order follows primary.
func Enrich(primary []Joinable, related map[string][]Joinable) []Record {
	names := make([]string, 0, len(related))
	for name := range related {
		names = append(names, name)
	}

	indexes := make([]map[string]Joinable, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			indexes[i] = Index(related[name])
			return nil
		})
	}
	_ = g.Wait()

	records := make([]Record, len(primary))
	for i, p := range primary {
		rec := Record{Primary: p, related: make(map[string]Joinable, len(names))}
		for n, name := range names {
			ref := p.Ref(name)
			if ref == "" {
				continue
			}
			if match, ok := indexes[n][ref]; ok {
				rec.related[name] = match
			}
		}
		records[i] = rec
	}
	return records
}

// Joinables converts a typed slice for use with Enrich.
func Joinables[T Joinable](items []T) []Joinable {
	out := make([]Joinable, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// GroupBy buckets items by the identifier they hold for relation. Items
// without a reference are dropped. Input order is kept inside each bucket.
func GroupBy[T Joinable](items []T, relation string) map[string][]T {
	groups := make(map[string][]T)
	for _, item := range items {
		ref := item.Ref(relation)
		if ref == "" {
			continue
		}
		groups[ref] = append(groups[ref], item)
	}
	return groups
}
