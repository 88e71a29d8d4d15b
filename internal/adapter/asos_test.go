package adapter

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elieez/PricePilot/config"
)

func newTestAsos(t *testing.T, siteBase, currency string) Adapter {
	t.Helper()
	ad, err := newAsos(config.MonitorConfig{
		Slug:     "asos-test",
		SiteBase: siteBase,
		Currency: currency,
	}, Deps{})
	require.NoError(t, err)
	return ad
}

func TestAsosDiscoverURLs(t *testing.T) {
	listingHTML := `
		<html><body>
			<a href="/prd/100?colour=red">Tee</a>
			<a href="/prd/100?colour=blue">Tee again</a>
			<a href="/prd/200">Sneaker</a>
			<a href="/about-us">About</a>
			<a href="/prd/300">Scarf</a>
		</body></html>
	`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, listingHTML)
	}))
	defer server.Close()

	ad := newTestAsos(t, server.URL, "EUR")

	urls, err := ad.DiscoverURLs(server.URL+"/sale", 10)
	require.NoError(t, err)

	// query stripped, duplicates collapsed, non-product links ignored,
	// document order preserved
	assert.Equal(t, []string{
		server.URL + "/prd/100",
		server.URL + "/prd/200",
		server.URL + "/prd/300",
	}, urls)
}

func TestAsosDiscoverRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, `<a href="/prd/%d">item %d</a>`, i, i)
		}
	}))
	defer server.Close()

	ad := newTestAsos(t, server.URL, "EUR")

	urls, err := ad.DiscoverURLs(server.URL+"/sale", 3)
	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestAsosFetchOffer(t *testing.T) {
	productHTML := `
		<html><head>
		<script type="application/ld+json">
		{
			"@type": "Product",
			"name": "Breton Stripe Tee",
			"brand": {"name": "Levis"},
			"offers": {"price": "29.99", "priceCurrency": "EUR"},
			"aggregateRating": {"ratingValue": "4.5", "reviewCount": "120"}
		}
		</script>
		<meta property="og:image" content="https://img.example.com/tee.jpg">
		</head><body>
			<h1>Ignored, structured data wins</h1>
			<span class="previous-price">was 49,99 €</span>
		</body></html>
	`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, productHTML)
	}))
	defer server.Close()

	ad := newTestAsos(t, server.URL, "EUR")

	offer, err := ad.FetchOffer(server.URL + "/prd/100")
	require.NoError(t, err)
	require.NotNil(t, offer)

	assert.Equal(t, "Breton Stripe Tee", offer.Title)
	assert.Equal(t, "Levis", offer.Brand)
	assert.Equal(t, int64(2999), offer.PriceCents)
	// "was" price comes from the DOM, structured data rarely has it
	assert.Equal(t, int64(4999), offer.PrevPriceCents)
	assert.Equal(t, "EUR", offer.Currency)
	assert.Equal(t, 4.5, offer.Rating)
	assert.Equal(t, 120, offer.ReviewCount)
	assert.Equal(t, "https://img.example.com/tee.jpg", offer.ImageURL)
}

func TestAsosFetchOfferDOMFallbacks(t *testing.T) {
	// structured data present but partial: title and currency fall back
	productHTML := `
		<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "offers": {"price": "15.00"}}
		</script>
		</head><body>
			<h1>Fallback Title</h1>
		</body></html>
	`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, productHTML)
	}))
	defer server.Close()

	ad := newTestAsos(t, server.URL, "SEK")

	offer, err := ad.FetchOffer(server.URL + "/prd/100")
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, "Fallback Title", offer.Title)
	assert.Equal(t, int64(1500), offer.PriceCents)
	assert.Equal(t, "SEK", offer.Currency)
	assert.Zero(t, offer.PrevPriceCents)
}

func TestAsosFetchOfferAbsentWithoutPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><h1>No price anywhere</h1></body></html>`)
	}))
	defer server.Close()

	ad := newTestAsos(t, server.URL, "EUR")

	offer, err := ad.FetchOffer(server.URL + "/prd/100")
	assert.NoError(t, err)
	assert.Nil(t, offer)
}

func TestAsosFetchOfferTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ad := newTestAsos(t, server.URL, "EUR")

	_, err := ad.FetchOffer(server.URL + "/prd/100")
	assert.Error(t, err)
}
