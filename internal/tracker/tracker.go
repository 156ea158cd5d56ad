// Package tracker computes which candidate listings have not been
// notified yet.
package tracker

import "flat_watch/internal/model"

// Diff returns the candidates whose ID is absent from seen, preserving
// the relative order of the input. Duplicate IDs in candidates are kept
// as-is; Diff never mutates seen.
func Diff(candidates []model.Listing, seen map[string]bool) []model.Listing {
	var fresh []model.Listing
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}

// IDs returns the listing IDs in order.
func IDs(listings []model.Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}
