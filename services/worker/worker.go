// Package worker drives the monitoring pipeline: discovery, dedup filtering,
// per-offer fetch, business filtering, currency conversion, notification,
// and state commit, one monitor at a time.
package worker

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Elieez/PricePilot/config"
	"github.com/Elieez/PricePilot/internal/adapter"
	"github.com/Elieez/PricePilot/internal/fx"
	"github.com/Elieez/PricePilot/internal/state"
	"github.com/Elieez/PricePilot/logger"
	"github.com/Elieez/PricePilot/services/notifier"
)

// Monitor pairs a monitor definition with its constructed adapter
type Monitor struct {
	Cfg     config.MonitorConfig
	Adapter adapter.Adapter
}

// Worker runs one bounded monitoring pass across all monitors. Monitors are
// processed sequentially, and candidates within a monitor are fetched
// sequentially with randomized jitter between them. This is a politeness
// control against the scraped sites and must not be parallelized.
type Worker struct {
	ctx            context.Context
	monitors       []Monitor
	store          state.Store
	notifier       notifier.Notifier
	fxSnap         *fx.Snapshot
	currencyOutput string
	globalFilters  config.FilterConfig
	sampleLimit    int
	jitterMs       []int
	rng            *rand.Rand
	log            *logger.Logger
}

// New creates a worker for one pass
func New(
	ctx context.Context,
	monitors []Monitor,
	store state.Store,
	ntf notifier.Notifier,
	fxSnap *fx.Snapshot,
	cfg *config.Config,
) *Worker {
	return &Worker{
		ctx:            ctx,
		monitors:       monitors,
		store:          store,
		notifier:       ntf,
		fxSnap:         fxSnap,
		currencyOutput: cfg.CurrencyOutput,
		globalFilters:  cfg.Filters,
		sampleLimit:    cfg.Run.SampleLimit,
		jitterMs:       cfg.Run.JitterMs,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		log:            logger.ForWorker(),
	}
}

// Run processes every monitor in sequence and reports whether any of them
// produced a change. Monitor-level failures are logged, never propagated.
func (w *Worker) Run() bool {
	anyChanged := false
	for _, m := range w.monitors {
		if w.ctx.Err() != nil {
			w.log.Warn().Msg("Run cancelled, remaining monitors skipped")
			break
		}

		log := logger.ForMonitor(m.Cfg.Slug)
		log.Info().Str("adapter", m.Adapter.Name()).Msg("Running monitor")

		changed, err := w.runMonitor(m)
		if err != nil {
			log.Error().Err(err).Msg("Monitor run failed")
			continue
		}
		if changed {
			anyChanged = true
			log.Info().Msg("Monitor produced changes")
		} else {
			log.Info().Msg("No new listings")
		}
	}
	return anyChanged
}

// runMonitor executes the per-monitor state machine. Terminal states are
// "changed" (state persisted) and "no-change" (state untouched).
func (w *Worker) runMonitor(m Monitor) (bool, error) {
	slug := m.Cfg.Slug
	log := logger.ForMonitor(slug)

	seenList, err := w.store.LoadSeen(slug)
	if err != nil {
		return false, err
	}
	seen := make(map[string]bool, len(seenList))
	for _, u := range seenList {
		seen[u] = true
	}

	// discovery: one listing failing must not abort the monitor
	var candidates []string
	inCandidates := make(map[string]bool)
	for _, listing := range m.Cfg.ListingURLs {
		urls, err := m.Adapter.DiscoverURLs(listing, w.sampleLimit)
		if err != nil {
			log.Error().Err(err).Str("listing", listing).Msg("Listing discovery failed")
			continue
		}
		for _, u := range urls {
			if seen[u] || inCandidates[u] {
				continue
			}
			inCandidates[u] = true
			candidates = append(candidates, u)
		}
	}

	if len(candidates) == 0 {
		return false, nil
	}
	log.Info().Int("candidates", len(candidates)).Msg("Processing new candidates")

	flt := MergeFilters(w.globalFilters, m.Cfg.Filters)
	changed := false
	markSeen := func(u string) {
		seenList = append(seenList, u)
		seen[u] = true
		changed = true
	}

	for _, u := range candidates {
		if w.ctx.Err() != nil {
			// interrupted: nothing is persisted, the next run redoes this work
			return false, w.ctx.Err()
		}

		offer, err := m.Adapter.FetchOffer(u)
		if err != nil {
			// not marked seen, so a transient failure retries next run
			log.Error().Err(err).Str("url", u).Msg("Offer fetch failed")
			w.jitter()
			continue
		}
		if offer == nil {
			// extraction exhausted all paths; don't re-evaluate every run
			log.Debug().Str("url", u).Msg("No usable offer extracted")
			markSeen(u)
			w.jitter()
			continue
		}

		if !flt.PassesBrand(offer.Brand) {
			log.Debug().Str("url", u).Str("brand", offer.Brand).Msg("Rejected by brand filter")
			markSeen(u)
			w.jitter()
			continue
		}
		if !flt.PassesDiscount(offer.PriceCents, offer.PrevPriceCents) {
			log.Debug().Str("url", u).Msg("Rejected by discount filter")
			markSeen(u)
			w.jitter()
			continue
		}

		n := w.buildNotification(m, offer)
		if err := w.notifier.Send(w.ctx, n); err != nil {
			// not marked seen either: the offer is re-notified next run
			log.Error().Err(err).Str("url", u).Msg("Notification dispatch failed")
			w.jitter()
			continue
		}

		log.Info().Str("url", u).Str("title", offer.Title).Msg("Notified new offer")
		markSeen(u)
		w.jitter()
	}

	if !changed {
		return false, nil
	}
	if err := w.store.SaveSeen(slug, seenList); err != nil {
		return false, err
	}
	return true, nil
}

// buildNotification renders the offer into the outgoing payload
func (w *Worker) buildNotification(m Monitor, offer *adapter.Offer) notifier.Notification {
	var parts []string
	if offer.Brand != "" {
		parts = append(parts, offer.Brand)
	}
	parts = append(parts, w.formatPrice(offer))
	if pct := offer.DiscountPct(); pct > 0 {
		parts = append(parts, fmt.Sprintf("↓%d%%", pct))
	}

	title := offer.Title
	if title == "" {
		title = "New item"
	}

	return notifier.Notification{
		Title:        title,
		Link:         offer.URL,
		Description:  strings.Join(parts, " • "),
		Footer:       m.Cfg.Name,
		ThumbnailURL: offer.ImageURL,
	}
}

// formatPrice renders the price in the output currency when conversion is
// possible, annotated with the original amount; otherwise the original alone.
func (w *Worker) formatPrice(offer *adapter.Offer) string {
	cur := strings.ToUpper(offer.Currency)
	original := strings.TrimSpace(fmt.Sprintf("%.2f %s", float64(offer.PriceCents)/100, cur))

	if w.currencyOutput == "" || cur == w.currencyOutput {
		return original
	}
	converted, ok := fx.Convert(offer.PriceCents, cur, w.currencyOutput, w.fxSnap)
	if !ok {
		return original
	}
	return fmt.Sprintf("%.0f %s (original %s)", float64(converted)/100, w.currencyOutput, original)
}

// jitter sleeps a randomized interval between candidate fetches to avoid a
// predictable request cadence against the source site
func (w *Worker) jitter() {
	if len(w.jitterMs) != 2 || w.jitterMs[1] <= 0 {
		return
	}
	lo, hi := w.jitterMs[0], w.jitterMs[1]
	d := time.Duration(lo) * time.Millisecond
	if hi > lo {
		d = time.Duration(lo+w.rng.Intn(hi-lo+1)) * time.Millisecond
	}

	select {
	case <-w.ctx.Done():
	case <-time.After(d):
	}
}
