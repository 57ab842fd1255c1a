package app

import (
	"strings"

	"chileadicto/internal/domain"
)

// ResolveCatalog matches requested category/commune labels against the
// tenant catalog, case-insensitively, on slug or either display name.
// Unmatched labels are returned for the caller to log, not treated as an
// error: catalog edits and post edits must stay order-independent.
func ResolveCatalog(labels []string, catalog []domain.CatalogEntry) (ids []int64, dropped []string) {
	index := make(map[string]int64, len(catalog)*3)
	for _, e := range catalog {
		for _, key := range []string{e.Slug, e.NameES, e.NameEN} {
			if key != "" {
				index[strings.ToLower(strings.TrimSpace(key))] = e.ID
			}
		}
	}

	seen := make(map[int64]struct{}, len(labels))
	for _, label := range labels {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			continue
		}
		id, ok := index[key]
		if !ok {
			dropped = append(dropped, label)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, dropped
}

// DiffIDs computes the minimal add/remove sets between the currently
// linked ids and the desired ones. Membership already present is left
// alone, which keeps the partial-failure window as small as the store
// allows.
func DiffIDs(current, desired []int64) (toAdd, toRemove []int64) {
	cur := make(map[int64]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	des := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		des[id] = struct{}{}
	}
	for _, id := range desired {
		if _, ok := cur[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := des[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
