// Package model defines the domain types used across the application.
package model

// Amenity is a feature a listing can offer.
type Amenity string

// Amenities recognized by the matcher.
const (
	AmenityElevator Amenity = "elevator"
	AmenityBalcony  Amenity = "balcony"
)

// Listing represents one scraped real-estate advertisement.
// Numeric fields are zero when the source did not expose the value.
type Listing struct {
	ID         string
	Source     string
	Title      string
	URL        string
	Location   string
	Price      float64 // total price in zł
	Area       float64 // m²
	PricePerM2 float64 // zł/m², derived from Price and Area when possible
	Rooms      int
	Floor      string // raw site text ("parter", "3 piętro"), display only
	Amenities  []Amenity
	// AmenitiesAssumed is set when Amenities were carried over from
	// the search query rather than read off the listing itself.
	AmenitiesAssumed bool
}

// HasAmenity reports whether the listing advertises the given amenity.
func (l Listing) HasAmenity(a Amenity) bool {
	for _, have := range l.Amenities {
		if have == a {
			return true
		}
	}
	return false
}

// SearchCriteria defines the bounds a matching listing must satisfy.
// It is built once at startup and never mutated.
type SearchCriteria struct {
	Location          string
	MaxPricePerM2     float64
	MinArea           float64
	MaxArea           float64
	MinRooms          int
	MaxRooms          int
	RequiredAmenities []Amenity
	PageLimit         int
}
