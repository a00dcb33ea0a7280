package resourcecache

import (
	"context"
	"strings"
)

type invalidationGroupsContextKey struct{}

// WithInvalidationGroups attaches extra cache groups to ctx. A successful
// write made with ctx invalidates them together with the written resource,
// e.g. "projects" after a contact is updated.
func WithInvalidationGroups(ctx context.Context, groups ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(groups) == 0 {
		return ctx
	}

	existing := invalidationGroupsFromContext(ctx)
	combined := dedupeStrings(append(existing, groups...))
	if len(combined) == 0 {
		return ctx
	}

	return context.WithValue(ctx, invalidationGroupsContextKey{}, combined)
}

func invalidationGroupsFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if groups, ok := ctx.Value(invalidationGroupsContextKey{}).([]string); ok {
		return append([]string(nil), groups...)
	}
	return nil
}

// dedupeStrings trims, drops empties and keeps the first occurrence of each
// value.
func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
