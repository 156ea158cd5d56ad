package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"flat_watch/internal/model"
)

const otodomBaseURL = "https://www.otodom.pl/pl/wyniki/sprzedaz/mieszkanie/dolnoslaskie/wroclaw/wroclaw/wroclaw"

// Otodom fetches sale listings from the Otodom search results page.
// The search query itself carries the criteria the site can filter on
// (price/m², area, rooms, extras), so the returned cards are already
// constrained server-side.
type Otodom struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

// NewOtodom creates an Otodom source.
func NewOtodom(client HTTPClient, log *slog.Logger) *Otodom {
	return &Otodom{
		client:  client,
		baseURL: otodomBaseURL,
		log:     log,
	}
}

// Name returns the source identifier used for seen-set bookkeeping.
func (o *Otodom) Name() string { return "otodom" }

var otodomRoomLabels = map[int]string{
	1: "ONE",
	2: "TWO",
	3: "THREE",
	4: "FOUR",
	5: "FIVE",
	6: "SIX_OR_MORE",
}

var otodomExtraLabels = map[model.Amenity]string{
	model.AmenityBalcony:  "BALCONY",
	model.AmenityElevator: "ELEVATOR",
}

func (o *Otodom) searchURL(c model.SearchCriteria) (string, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	if c.Location != "" {
		q.Set("locations", c.Location)
	}
	if c.MaxPricePerM2 > 0 {
		q.Set("pricePerMeterMax", strconv.FormatFloat(c.MaxPricePerM2, 'f', -1, 64))
	}
	if c.MinArea > 0 {
		q.Set("areaMin", strconv.FormatFloat(c.MinArea, 'f', -1, 64))
	}
	if c.MaxArea > 0 {
		q.Set("areaMax", strconv.FormatFloat(c.MaxArea, 'f', -1, 64))
	}
	if rooms := otodomRoomList(c.MinRooms, c.MaxRooms); rooms != "" {
		q.Set("roomsNumber", rooms)
	}
	if extras := otodomExtraList(c.RequiredAmenities); extras != "" {
		q.Set("extras", extras)
	}
	if c.PageLimit > 0 {
		q.Set("limit", strconv.Itoa(c.PageLimit))
	}
	u.RawQuery = q.Encode()

	// The site expects literal brackets in list-valued parameters.
	// Commas inside the lists stay percent-encoded.
	raw := strings.ReplaceAll(u.RawQuery, "%5B", "[")
	raw = strings.ReplaceAll(raw, "%5D", "]")
	u.RawQuery = raw

	return u.String(), nil
}

func otodomRoomList(minRooms, maxRooms int) string {
	var labels []string
	for n := minRooms; n <= maxRooms; n++ {
		if label, ok := otodomRoomLabels[n]; ok {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return "[" + strings.Join(labels, ",") + "]"
}

func otodomExtraList(amenities []model.Amenity) string {
	var labels []string
	for _, a := range amenities {
		if label, ok := otodomExtraLabels[a]; ok {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	sort.Strings(labels)
	return "[" + strings.Join(labels, ",") + "]"
}

// Fetch queries the search page and parses the listing cards.
func (o *Otodom) Fetch(ctx context.Context, c model.SearchCriteria) ([]model.Listing, error) {
	target, err := o.searchURL(c)
	if err != nil {
		return nil, fmt.Errorf("otodom: %w", err)
	}

	o.log.Debug("fetching search page", "source", o.Name(), "url", target)
	doc, err := fetchDocument(ctx, o.client, target)
	if err != nil {
		return nil, fmt.Errorf("otodom: fetch search page: %w", err)
	}

	var listings []model.Listing
	doc.Find("[data-cy='listing-item']").Each(func(_ int, card *goquery.Selection) {
		l, ok := o.parseCard(card, c)
		if !ok {
			return
		}
		listings = append(listings, l)
	})

	o.log.Debug("parsed listing cards", "source", o.Name(), "count", len(listings))
	return listings, nil
}

func (o *Otodom) parseCard(card *goquery.Selection, c model.SearchCriteria) (model.Listing, bool) {
	id, ok := card.Attr("id")
	if !ok || id == "" {
		return model.Listing{}, false
	}

	link, ok := card.Find("a[href*='/pl/oferta/']").First().Attr("href")
	if !ok || link == "" {
		return model.Listing{}, false
	}
	if strings.HasPrefix(link, "/") {
		link = "https://www.otodom.pl" + link
	}

	title := strings.TrimSpace(card.Find("[data-cy='listing-item-title']").First().Text())
	price, _ := parseNumber(card.Find("[data-cy='listing-item-price']").First().Text())

	var area float64
	var rooms int
	var floor string
	card.Find("[data-cy='listing-item-details'] dd").Each(func(_ int, dd *goquery.Selection) {
		text := strings.TrimSpace(dd.Text())
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(text, "m²"):
			if v, ok := parseNumber(text); ok {
				area = v
			}
		case strings.Contains(lower, "piętro") || strings.Contains(lower, "parter"):
			floor = text
		case strings.Contains(lower, "poko"):
			if n, ok := parseRoomCount(lower); ok {
				rooms = n
			}
		}
	})

	l := model.Listing{
		ID:     id,
		Source: o.Name(),
		Title:  title,
		URL:    link,
		Price:  price,
		Area:   area,
		Rooms:  rooms,
		Floor:  floor,
		// The extras filter is applied server-side by the search
		// query; the cards themselves carry no amenity data.
		Amenities:        append([]model.Amenity(nil), c.RequiredAmenities...),
		AmenitiesAssumed: true,
	}
	if price > 0 && area > 0 {
		l.PricePerM2 = price / area
	}
	return l, true
}
