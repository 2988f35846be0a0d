// api/names.go
package api

import (
	"strings"

	"doctree/internal/tree"
)

// findByName resolves a doctype node by key: exact match first, then
// case-insensitive when that is unambiguous.
func findByName(entities []*tree.Entity, name string) (*tree.Entity, bool) {
	if name == "" {
		return nil, false
	}
	if hit := tree.FindByKey(entities, name); hit != nil {
		return hit, true
	}

	nl := strings.ToLower(name)
	var found *tree.Entity
	ambiguous := false
	tree.Find(entities, func(e *tree.Entity) bool {
		if e.Key != nil && strings.ToLower(*e.Key) == nl {
			if found != nil {
				ambiguous = true
				return true
			}
			found = e
		}
		return false
	})
	if found == nil || ambiguous {
		return nil, false
	}
	return found, true
}

// searchEntities returns the doctype nodes whose key or description
// contains the term, case-insensitively. Matching nodes keep their
// whole subtree.
func searchEntities(entities []*tree.Entity, term string) []*tree.Entity {
	tl := strings.ToLower(term)
	matches := []*tree.Entity{}
	var walk func([]*tree.Entity)
	walk = func(es []*tree.Entity) {
		for _, e := range es {
			if e.IsDoctype() &&
				(e.Key != nil && strings.Contains(strings.ToLower(*e.Key), tl) ||
					strings.Contains(strings.ToLower(e.Description), tl)) {
				matches = append(matches, e)
				continue
			}
			walk(e.Children)
		}
	}
	walk(entities)
	return matches
}
