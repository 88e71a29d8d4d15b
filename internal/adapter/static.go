package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Elieez/PricePilot/config"
	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// staticAdapter is the generic, configuration-driven variant: every selection
// pattern comes from the monitor definition, so a new storefront is onboarded
// with configuration only. It expects storefronts that render product cards
// and prices in static HTML.
type staticAdapter struct {
	baseAdapter
	selectors  config.SelectorConfig
	priceRegex *regexp.Regexp
}

func newStatic(cfg config.MonitorConfig, deps Deps) (Adapter, error) {
	sel := cfg.Selectors
	if sel.Card == "" {
		return nil, errs.NewConfiguration("static adapter requires selectors.card for monitor "+cfg.Slug, nil)
	}
	if sel.Link == "" {
		sel.Link = "a"
	}

	canon, err := NewCanonicalizer(cfg.SiteBase, cfg.QueryParams)
	if err != nil {
		return nil, err
	}

	var priceRegex *regexp.Regexp
	if sel.PriceRegex != "" {
		priceRegex, err = regexp.Compile(sel.PriceRegex)
		if err != nil {
			return nil, errs.NewConfiguration("invalid price_regex for monitor "+cfg.Slug, err)
		}
	}

	currency := strings.ToUpper(cfg.Currency)
	if currency == "" {
		currency = "EUR"
	}

	return &staticAdapter{
		baseAdapter: baseAdapter{
			canon:           canon,
			cache:           deps.Cache,
			blockTime:       deps.BlockTime,
			defaultCurrency: currency,
		},
		selectors:  sel,
		priceRegex: priceRegex,
	}, nil
}

func (a *staticAdapter) Name() string {
	return "static"
}

// DiscoverURLs walks the configured cards and collects the link within each
func (a *staticAdapter) DiscoverURLs(listingURL string, limit int) ([]string, error) {
	doc, err := a.fetchDocument(listingURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)

	doc.Find(a.selectors.Card).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		href, ok := card.Find(a.selectors.Link).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		canonical, err := a.canon.Canonicalize(href)
		if err != nil {
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

// FetchOffer prefers JSON-LD and falls back to the configured selectors for
// the fields structured data did not supply.
func (a *staticAdapter) FetchOffer(productURL string) (*Offer, error) {
	doc, err := a.fetchDocument(productURL)
	if err != nil {
		return nil, err
	}

	offer := a.offerFromStructuredData(doc, productURL)

	if offer.Title == "" && a.selectors.Title != "" {
		offer.Title = strings.TrimSpace(doc.Find(a.selectors.Title).First().Text())
	}
	if offer.PriceCents == 0 && a.selectors.Price != "" {
		offer.PriceCents = priceFromSelection(doc.Find(a.selectors.Price), a.priceRegex)
	}
	if a.selectors.PrevPrice != "" {
		offer.PrevPriceCents = priceFromSelection(doc.Find(a.selectors.PrevPrice), a.priceRegex)
	}
	if offer.ImageURL == "" && a.selectors.Image != "" {
		if src, ok := doc.Find(a.selectors.Image).First().Attr("src"); ok {
			offer.ImageURL = strings.TrimSpace(src)
		}
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
