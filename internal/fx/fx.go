// Package fx fetches and caches currency conversion rates and converts
// amounts between currencies through a single base-relative snapshot.
package fx

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Elieez/PricePilot/config"
	"github.com/Elieez/PricePilot/logger"
	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// Snapshot is a cached set of rates relative to one base currency.
// Read-only to all consumers between refreshes.
type Snapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// SnapshotRepo persists the snapshot between runs
type SnapshotRepo interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// Service refreshes the snapshot from the rate provider when it is older
// than the configured time-to-live.
type Service struct {
	repo     SnapshotRepo
	client   *http.Client
	endpoint string
	base     string
	symbols  []string
	ttl      time.Duration
	log      *logger.Logger
}

// NewService creates an FX service from configuration
func NewService(cfg config.FXConfig, repo SnapshotRepo) *Service {
	return &Service{
		repo:     repo,
		client:   &http.Client{Timeout: 20 * time.Second},
		endpoint: cfg.Endpoint,
		base:     strings.ToUpper(cfg.Base),
		symbols:  cfg.Symbols,
		ttl:      time.Duration(cfg.RefreshHours) * time.Hour,
		log:      logger.ForComponent("fx"),
	}
}

// Rates returns the current snapshot: the cached one while fresh, a freshly
// fetched one when stale, and the stale one again when the provider is
// unavailable. A nil result means "cannot convert, skip conversion" and must
// never block the pipeline.
func (s *Service) Rates() *Snapshot {
	cached, err := s.repo.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load cached rates")
	}
	if cached != nil && time.Since(cached.FetchedAt) < s.ttl {
		return cached
	}

	snap, err := s.fetch()
	if err != nil {
		s.log.Warn().Err(err).Msg("Rate fetch failed, using previous snapshot if any")
		return cached
	}

	if err := s.repo.Save(snap); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist rate snapshot")
	}
	return snap
}

// fetch calls the rate provider for base-relative rates
func (s *Service) fetch() (*Snapshot, error) {
	q := url.Values{
		"base":    {s.base},
		"symbols": {strings.Join(s.symbols, ",")},
	}

	resp, err := s.client.Get(s.endpoint + "?" + q.Encode())
	if err != nil {
		return nil, errs.NewNetwork("fx", "rate provider request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewNetwork("fx", fmt.Sprintf("rate provider status %d", resp.StatusCode), nil)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errs.NewParsing("fx", "malformed rate provider response", err)
	}
	if len(payload.Rates) == 0 {
		return nil, errs.NewParsing("fx", "rate provider returned no rates", nil)
	}

	return &Snapshot{
		Base:      s.base,
		Rates:     payload.Rates,
		FetchedAt: time.Now(),
	}, nil
}

// Convert converts an amount in minor units between currencies using the
// snapshot's base-relative rates: the factor is target-per-base divided by
// from-per-base, since the provider returns no pairwise matrix. The second
// return is false when conversion is not possible.
func Convert(amountCents int64, from, to string, snap *Snapshot) (int64, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to && from != "" {
		return amountCents, true
	}
	if snap == nil || len(snap.Rates) == 0 {
		return 0, false
	}

	fromPerBase, okFrom := snap.Rates[from]
	toPerBase, okTo := snap.Rates[to]
	if !okFrom || !okTo || fromPerBase == 0 {
		return 0, false
	}

	factor := toPerBase / fromPerBase
	return int64(math.Round(float64(amountCents) * factor)), true
}
