package fetcher

import (
	"regexp"
	"strconv"
	"strings"

	"flat_watch/internal/model"
)

// The sites format numbers the Polish way: spaces (or non-breaking
// spaces) as thousands separators and a comma as the decimal mark,
// e.g. "650 000 zł" or "56,5 m²".
var numberRe = regexp.MustCompile(`\d[\d\s\x{00a0}]*(?:[,.]\d+)?`)

var (
	areaLabeledRe  = regexp.MustCompile(`powierzchnia[:\s]*(\d+(?:[,.]\d+)?)\s*m`)
	areaInlineRe   = regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*m[²2]`)
	roomsLabeledRe = regexp.MustCompile(`liczba pokoi[:\s]*(\d+)`)
	roomsInlineRe  = regexp.MustCompile(`(\d+)[-\s]*poko`)
	floorRe        = regexp.MustCompile(`(?:piętro|poziom)[:\s]*(\d+|parter)`)
)

// parseNumber extracts the first number from free-form site text.
func parseNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ' ':
			return -1
		case ',':
			return '.'
		}
		return r
	}, m)
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseArea looks for an area in lowercase text, preferring the
// labeled "powierzchnia: X m²" form over a bare "X m²".
func parseArea(text string) (float64, bool) {
	if m := areaLabeledRe.FindStringSubmatch(text); m != nil {
		return parseNumber(m[1])
	}
	if m := areaInlineRe.FindStringSubmatch(text); m != nil {
		return parseNumber(m[1])
	}
	return 0, false
}

// parseRoomCount looks for a room count in lowercase text, preferring
// the labeled "liczba pokoi: X" form over "X pokoje" phrasing.
func parseRoomCount(text string) (int, bool) {
	m := roomsLabeledRe.FindStringSubmatch(text)
	if m == nil {
		m = roomsInlineRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFloor extracts the floor designation ("parter" or a number)
// from lowercase text. The value is informational only.
func parseFloor(text string) (string, bool) {
	m := floorRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var amenityKeywords = map[model.Amenity][]string{
	model.AmenityElevator: {"winda", "elevator", "lift"},
	model.AmenityBalcony:  {"balkon", "taras", "loggia", "balcony"},
}

// scanAmenities finds amenity mentions in lowercase text.
func scanAmenities(text string) []model.Amenity {
	var found []model.Amenity
	for _, a := range []model.Amenity{model.AmenityElevator, model.AmenityBalcony} {
		for _, kw := range amenityKeywords[a] {
			if strings.Contains(text, kw) {
				found = append(found, a)
				break
			}
		}
	}
	return found
}

// mergeAmenities returns the union of two amenity lists, keeping the
// order of first appearance.
func mergeAmenities(have, extra []model.Amenity) []model.Amenity {
	merged := have
	for _, a := range extra {
		present := false
		for _, h := range merged {
			if h == a {
				present = true
				break
			}
		}
		if !present {
			merged = append(merged, a)
		}
	}
	return merged
}
