package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Elieez/PricePilot/config"
)

const asosBase = "https://www.asos.com"

// prevPriceSelectors are the DOM locations ASOS has used for the "was" price
const prevPriceSelectors = "[data-testid='previous-price'], .previous-price, .price .previous, .rrp"

// asosAdapter discovers /prd/ product links from listing pages and extracts
// offers from the product page JSON-LD, with DOM fallbacks for the fields
// structured data does not carry.
type asosAdapter struct {
	baseAdapter
}

func newAsos(cfg config.MonitorConfig, deps Deps) (Adapter, error) {
	siteBase := cfg.SiteBase
	if siteBase == "" {
		siteBase = asosBase
	}
	canon, err := NewCanonicalizer(siteBase, cfg.QueryParams)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(cfg.Currency)
	if currency == "" {
		currency = "EUR"
	}

	return &asosAdapter{
		baseAdapter: baseAdapter{
			canon:           canon,
			cache:           deps.Cache,
			blockTime:       deps.BlockTime,
			defaultCurrency: currency,
		},
	}, nil
}

func (a *asosAdapter) Name() string {
	return "asos"
}

// DiscoverURLs collects product links from a listing page
func (a *asosAdapter) DiscoverURLs(listingURL string, limit int) ([]string, error) {
	doc, err := a.fetchDocument(listingURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)

	doc.Find("a[href*='/prd/']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		canonical, err := a.canon.Canonicalize(href)
		if err != nil || !strings.Contains(canonical, "/prd/") {
			return true
		}
		if seen[canonical] {
			return true
		}
		seen[canonical] = true
		urls = append(urls, canonical)
		return len(urls) < limit
	})

	return urls, nil
}

// FetchOffer extracts an offer from a product page. Structured data wins;
// DOM heuristics only fill the gaps.
func (a *asosAdapter) FetchOffer(productURL string) (*Offer, error) {
	doc, err := a.fetchDocument(productURL)
	if err != nil {
		return nil, err
	}

	offer := a.offerFromStructuredData(doc, productURL)

	// "was" price is DOM-only; structured data rarely encodes it
	offer.PrevPriceCents = priceFromSelection(doc.Find(prevPriceSelectors), nil)

	if offer.Title == "" {
		offer.Title = strings.TrimSpace(doc.Find("h1, [data-auto-id='productTitle']").First().Text())
	}
	if offer.ImageURL == "" {
		offer.ImageURL = imageFallback(doc)
	}
	if offer.Currency == "" {
		offer.Currency = a.defaultCurrency
	}

	if offer.PriceCents == 0 {
		return nil, nil
	}
	if offer.Title == "" {
		offer.Title = productURL
	}
	return offer, nil
}
