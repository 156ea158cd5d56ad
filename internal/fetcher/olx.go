package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"flat_watch/internal/model"
)

const olxBaseURL = "https://www.olx.pl/nieruchomosci/mieszkania/sprzedaz/wroclaw/"

// OLX fetches sale listings from the OLX search results page. OLX has
// no query parameters for most of the criteria, so the cards come back
// unconstrained; area, rooms, and amenity mentions are scraped from
// the card text, and the listing detail page is fetched when the card
// alone does not carry enough data for the matcher.
type OLX struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

// NewOLX creates an OLX source.
func NewOLX(client HTTPClient, log *slog.Logger) *OLX {
	return &OLX{
		client:  client,
		baseURL: olxBaseURL,
		log:     log,
	}
}

// Name returns the source identifier used for seen-set bookkeeping.
func (o *OLX) Name() string { return "olx" }

// Fetch parses the search page and fills in missing listing data from
// detail pages.
func (o *OLX) Fetch(ctx context.Context, c model.SearchCriteria) ([]model.Listing, error) {
	o.log.Debug("fetching search page", "source", o.Name(), "url", o.baseURL)
	doc, err := fetchDocument(ctx, o.client, o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("olx: fetch search page: %w", err)
	}

	var listings []model.Listing
	doc.Find("[data-cy='l-card']").Each(func(_ int, card *goquery.Selection) {
		l, ok := o.parseCard(card)
		if !ok {
			return
		}
		listings = append(listings, l)
	})
	o.log.Debug("parsed listing cards", "source", o.Name(), "count", len(listings))

	for i := range listings {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !o.needsDetails(listings[i]) {
			continue
		}
		o.fillDetails(ctx, &listings[i])
	}

	return listings, nil
}

func (o *OLX) parseCard(card *goquery.Selection) (model.Listing, bool) {
	link, ok := card.Find("a").First().Attr("href")
	if !ok || link == "" {
		return model.Listing{}, false
	}
	if strings.HasPrefix(link, "/") {
		link = "https://www.olx.pl" + link
	}
	// Promoted cards can point at unrelated partner sites.
	if !strings.Contains(link, "olx.pl") && !strings.Contains(link, "otodom.pl") {
		return model.Listing{}, false
	}

	id := listingIDFromURL(link)
	if id == "" {
		return model.Listing{}, false
	}

	title := firstText(card, "h6", "h4", "[data-cy='ad-title']")
	if title == "" {
		return model.Listing{}, false
	}

	price, ok := parseNumber(card.Find("p[data-testid='ad-price']").First().Text())
	if !ok {
		return model.Listing{}, false
	}

	location := "Wrocław"
	if locDate := strings.TrimSpace(card.Find("p[data-testid='location-date']").First().Text()); locDate != "" {
		location = strings.TrimSpace(strings.SplitN(locDate, " - ", 2)[0])
	}

	text := strings.ToLower(card.Text())
	l := model.Listing{
		ID:        id,
		Source:    o.Name(),
		Title:     title,
		URL:       link,
		Location:  location,
		Price:     price,
		Amenities: scanAmenities(text),
	}
	if area, ok := parseArea(text); ok {
		l.Area = area
	}
	if rooms, ok := parseRoomCount(text); ok {
		l.Rooms = rooms
	}
	if floor, ok := parseFloor(text); ok {
		l.Floor = floor
	}
	if l.Price > 0 && l.Area > 0 {
		l.PricePerM2 = l.Price / l.Area
	}
	return l, true
}

// needsDetails reports whether the card data is too thin for the
// matcher to make a fail-closed decision fairly.
func (o *OLX) needsDetails(l model.Listing) bool {
	return l.Area == 0 || l.Rooms == 0 || !l.HasAmenity(model.AmenityElevator)
}

// fillDetails scrapes the listing page for the fields the card lacked.
// A failed detail fetch leaves the listing as-is; the matcher will
// exclude it if the missing data mattered.
func (o *OLX) fillDetails(ctx context.Context, l *model.Listing) {
	doc, err := fetchDocument(ctx, o.client, l.URL)
	if err != nil {
		o.log.Warn("fetch listing details", "source", o.Name(), "id", l.ID, "error", err)
		return
	}

	text := strings.ToLower(doc.Text())
	if l.Area == 0 {
		if area, ok := parseArea(text); ok {
			l.Area = area
		}
	}
	if l.Rooms == 0 {
		if rooms, ok := parseRoomCount(text); ok {
			l.Rooms = rooms
		}
	}
	if l.Floor == "" {
		if floor, ok := parseFloor(text); ok {
			l.Floor = floor
		}
	}
	l.Amenities = mergeAmenities(l.Amenities, scanAmenities(text))

	if l.Price > 0 && l.Area > 0 {
		l.PricePerM2 = l.Price / l.Area
	}
}

// listingIDFromURL extracts the ad slug, e.g.
// "mieszkanie-3-pokojowe-CID3-ID12abc" from ".../mieszkanie-3-pokojowe-CID3-ID12abc.html".
func listingIDFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, ".html")
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
