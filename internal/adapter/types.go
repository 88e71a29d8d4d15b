package adapter

import "time"

// Offer represents a structured product offer extracted from a page.
// A zero PriceCents or PrevPriceCents means the value is unknown.
type Offer struct {
	Title          string  `json:"title"`
	Brand          string  `json:"brand,omitempty"`
	PriceCents     int64   `json:"price_cents"`
	PrevPriceCents int64   `json:"prev_price_cents,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	ReviewCount    int     `json:"review_count,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	URL            string  `json:"url"`
}

// HasDiscount reports whether both prices are known and the current one is lower
func (o *Offer) HasDiscount() bool {
	return o.PriceCents > 0 && o.PrevPriceCents > o.PriceCents
}

// DiscountPct returns the discount percentage, rounded to the nearest integer.
// Zero when HasDiscount is false.
func (o *Offer) DiscountPct() int {
	if !o.HasDiscount() {
		return 0
	}
	return int(float64(o.PrevPriceCents-o.PriceCents)/float64(o.PrevPriceCents)*100 + 0.5)
}

// Adapter is the capability implemented per site variant: discover candidate
// product URLs from a listing page, and extract a structured offer from a
// product page.
type Adapter interface {
	// DiscoverURLs returns up to limit canonical product URLs found on the
	// listing page, in document order, without duplicates.
	DiscoverURLs(listingURL string, limit int) ([]string, error)

	// FetchOffer extracts an offer from a product page. It returns (nil, nil)
	// when no usable offer (at minimum, a price) could be extracted; transport
	// failures are returned as retryable errors.
	FetchOffer(productURL string) (*Offer, error)

	// Name returns the adapter variant name for logging
	Name() string
}

// Deps carries the shared services an adapter is constructed with
type Deps struct {
	// Cache blocks re-fetching a host for BlockTime after a rate-limited
	// response. Nil disables blocking.
	Cache     BlockCache
	BlockTime time.Duration
}

// BlockCache is the subset of the cache service the adapters need
type BlockCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, expiration time.Duration) error
}
