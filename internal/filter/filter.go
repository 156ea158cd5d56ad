// Package filter implements the listing matching engine.
package filter

import "flat_watch/internal/model"

// Matches checks whether a listing satisfies the search criteria.
// All numeric bounds are inclusive. A listing with unknown price/m²,
// area, or room count does not match, and neither does one missing a
// required amenity: incomplete data fails closed.
//
// Floor position is deliberately not evaluated here. The sites do not
// expose it as a queryable attribute, so it is surfaced in the
// notification for manual review instead.
func Matches(l model.Listing, c model.SearchCriteria) bool {
	if l.PricePerM2 <= 0 || l.PricePerM2 > c.MaxPricePerM2 {
		return false
	}
	if l.Area <= 0 || l.Area < c.MinArea || l.Area > c.MaxArea {
		return false
	}
	if l.Rooms <= 0 || l.Rooms < c.MinRooms || l.Rooms > c.MaxRooms {
		return false
	}
	for _, required := range c.RequiredAmenities {
		if !l.HasAmenity(required) {
			return false
		}
	}
	return true
}

// Apply returns the listings that match the criteria, preserving order.
func Apply(listings []model.Listing, c model.SearchCriteria) []model.Listing {
	var matched []model.Listing
	for _, l := range listings {
		if Matches(l, c) {
			matched = append(matched, l)
		}
	}
	return matched
}
