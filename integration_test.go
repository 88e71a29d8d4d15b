package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elieez/PricePilot/config"
	"github.com/Elieez/PricePilot/internal/adapter"
	"github.com/Elieez/PricePilot/internal/state"
	"github.com/Elieez/PricePilot/services/notifier"
	"github.com/Elieez/PricePilot/services/worker"
)

const listingHTML = `
<!DOCTYPE html>
<html>
<body>
    <div class="grid">
        <div class="product-card">
            <a class="product-link" href="/prd/1?ranking=3">Runner sneaker</a>
        </div>
        <div class="product-card">
            <a class="product-link" href="/prd/2">Court sneaker</a>
        </div>
        <div class="product-card">
            <a class="product-link" href="/prd/3">Broken listing</a>
        </div>
    </div>
</body>
</html>
`

const productOneHTML = `
<!DOCTYPE html>
<html>
<head>
<script type="application/ld+json">
{
    "@type": "Product",
    "name": "Runner sneaker",
    "brand": {"@type": "Brand", "name": "Nike"},
    "offers": {"@type": "Offer", "price": "49.99", "priceCurrency": "EUR"}
}
</script>
</head>
<body><h1>Runner sneaker</h1></body>
</html>
`

const productTwoHTML = `
<!DOCTYPE html>
<html>
<body>
    <h1 class="product-title">Court sneaker</h1>
    <span class="price-current">Now 799,00 kr</span>
    <span class="price-was">Was 999,00 kr</span>
</body>
</html>
`

// recordingNotifier collects payloads instead of sending them anywhere
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
}

func (r *recordingNotifier) Send(_ context.Context, n notifier.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// TestMonitoringPass runs the real pipeline end to end against a mock
// storefront: discovery, canonicalization, offer extraction over both
// structured data and selectors, filtering, notification, and state commit.
func TestMonitoringPass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/outlet":
			io.WriteString(w, listingHTML)
		case "/prd/1":
			io.WriteString(w, productOneHTML)
		case "/prd/2":
			io.WriteString(w, productTwoHTML)
		default:
			// prd/3 serves no offer at all
			io.WriteString(w, "<html><body>Out of stock</body></html>")
		}
	}))
	defer server.Close()

	cfg := &config.Config{
		Run: config.RunConfig{SampleLimit: 30, JitterMs: []int{0, 0}},
		Monitors: []config.MonitorConfig{{
			Slug:        "outlet",
			Name:        "Mock Outlet",
			Adapter:     "static",
			ListingURLs: []string{server.URL + "/outlet"},
			Currency:    "SEK",
			SiteBase:    server.URL,
			Selectors: config.SelectorConfig{
				Card:      ".product-card",
				Link:      "a.product-link",
				Title:     "h1.product-title",
				Price:     ".price-current",
				PrevPrice: ".price-was",
			},
		}},
	}
	require.NoError(t, cfg.Validate())

	store := state.NewFileStore(t.TempDir())
	ntf := &recordingNotifier{}

	var monitors []worker.Monitor
	for _, mcfg := range cfg.Monitors {
		ad, err := adapter.New(mcfg, adapter.Deps{})
		require.NoError(t, err)
		monitors = append(monitors, worker.Monitor{Cfg: mcfg, Adapter: ad})
	}

	changed := worker.New(context.Background(), monitors, store, ntf, nil, cfg).Run()
	assert.True(t, changed, "first pass over an empty state must report changes")

	require.Len(t, ntf.sent, 2)
	assert.Equal(t, "Runner sneaker", ntf.sent[0].Title)
	assert.Equal(t, fmt.Sprintf("%s/prd/1", server.URL), ntf.sent[0].Link)
	assert.Contains(t, ntf.sent[0].Description, "Nike")
	assert.Contains(t, ntf.sent[0].Description, "49.99 EUR")
	assert.Equal(t, "Mock Outlet", ntf.sent[0].Footer)

	assert.Equal(t, "Court sneaker", ntf.sent[1].Title)
	assert.Contains(t, ntf.sent[1].Description, "799.00 SEK")
	assert.Contains(t, ntf.sent[1].Description, "↓20%")

	// every discovered URL is recorded, including the one with no offer
	seen, err := store.LoadSeen("outlet")
	require.NoError(t, err)
	assert.Equal(t, []string{
		server.URL + "/prd/1",
		server.URL + "/prd/2",
		server.URL + "/prd/3",
	}, seen)

	// the second pass finds nothing new
	changed = worker.New(context.Background(), monitors, store, ntf, nil, cfg).Run()
	assert.False(t, changed)
	assert.Len(t, ntf.sent, 2)
}
