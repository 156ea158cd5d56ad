package notify

import (
	"fmt"
	"strconv"
	"strings"

	"flat_watch/internal/model"
)

// FormatSummary formats new listings as a plain-text message.
func FormatSummary(listings []model.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d new apartments in Wrocław\n", len(listings))
	for _, l := range listings {
		b.WriteString("\n")
		b.WriteString(l.Title)
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s | %s | %s\n", formatPrice(l.Price), formatArea(l.Area), formatRooms(l.Rooms))
		fmt.Fprintf(&b, "%s | floor: %s\n", formatPricePerM2(l.PricePerM2), formatFloor(l.Floor))
		b.WriteString(l.URL)
		b.WriteString("\n")
	}
	return b.String()
}

func formatPrice(v float64) string {
	if v <= 0 {
		return "price N/A"
	}
	return groupThousands(v) + " zł"
}

func formatPricePerM2(v float64) string {
	if v <= 0 {
		return "zł/m² N/A"
	}
	return groupThousands(v) + " zł/m²"
}

func formatArea(v float64) string {
	if v <= 0 {
		return "area N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " m²"
}

func formatRooms(n int) string {
	if n <= 0 {
		return "rooms N/A"
	}
	return fmt.Sprintf("%d rooms", n)
}

// formatFloor marks floor data for manual review: ground and top
// floors are not filtered automatically.
func formatFloor(floor string) string {
	if floor == "" {
		return "? (check manually)"
	}
	return floor
}

// groupThousands renders a rounded value with spaces as thousands
// separators, the Polish convention: 650000 -> "650 000".
func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// amenityMark renders an amenity for the summary: observed on the
// listing, assumed from the search filter, or unknown.
func amenityMark(l model.Listing, a model.Amenity) string {
	if !l.HasAmenity(a) {
		return "?"
	}
	if l.AmenitiesAssumed {
		return "✓ (search filter)"
	}
	return "✓"
}
