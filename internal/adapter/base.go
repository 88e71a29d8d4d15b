package adapter

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Elieez/PricePilot/helpers"
	"github.com/Elieez/PricePilot/internal/pricing"
	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// numericPattern matches the first numeric price candidate in free text
var numericPattern = regexp.MustCompile(`[0-9][0-9.,]*`)

// baseAdapter provides the fetch and extraction plumbing shared by all
// adapter variants.
type baseAdapter struct {
	canon           *Canonicalizer
	cache           BlockCache
	blockTime       time.Duration
	defaultCurrency string
}

// fetchDocument fetches a page and parses it. After a rate-limited response
// the host is blocked for blockTime, so subsequent fetches in the same run
// short-circuit instead of hammering the site.
func (b *baseAdapter) fetchDocument(pageURL string) (*goquery.Document, error) {
	key := blockKey(pageURL)

	if b.cache != nil && key != "" {
		if _, err := b.cache.Get(key); err == nil {
			return nil, errs.NewRateLimit(pageURL, b.blockTime.String())
		}
	}

	body, err := helpers.FetchPage(pageURL)
	if err != nil {
		if b.cache != nil && key != "" && errs.IsType(err, errs.ErrorTypeRateLimit) {
			b.cache.Set(key, []byte("blocked"), b.blockTime)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errs.NewParsing(pageURL, "failed to parse HTML", err)
	}
	return doc, nil
}

// offerFromStructuredData seeds an offer from the page's JSON-LD Product
// node, if any. Fields it cannot fill stay zero for the DOM fallbacks.
func (b *baseAdapter) offerFromStructuredData(doc *goquery.Document, productURL string) *Offer {
	offer := &Offer{URL: productURL}

	p := findProduct(doc)
	if p == nil {
		return offer
	}

	offer.Title = p.Name
	offer.Brand = p.Brand
	offer.Currency = strings.ToUpper(p.Currency)
	offer.Rating = p.Rating
	offer.ReviewCount = p.ReviewCount
	offer.ImageURL = p.Image

	if p.Price != "" {
		if cents, err := pricing.ToMinorUnits(p.Price); err == nil {
			offer.PriceCents = cents
		}
	}
	return offer
}

// priceFromSelection runs the first numeric candidate in the selection's text
// through the price parser. Returns 0 when nothing parses.
func priceFromSelection(sel *goquery.Selection, pattern *regexp.Regexp) int64 {
	if sel.Length() == 0 {
		return 0
	}
	if pattern == nil {
		pattern = numericPattern
	}
	m := pattern.FindStringSubmatch(strings.TrimSpace(sel.First().Text()))
	if m == nil {
		return 0
	}
	candidate := m[0]
	if len(m) > 1 && m[1] != "" {
		candidate = m[1]
	}
	cents, err := pricing.ToMinorUnits(candidate)
	if err != nil {
		return 0
	}
	return cents
}

// imageFallback reads the og:image meta tag
func imageFallback(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

func blockKey(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return "block:" + u.Host
}
