package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Elieez/PricePilot/config"
	"github.com/Elieez/PricePilot/internal/adapter"
	"github.com/Elieez/PricePilot/internal/fx"
	"github.com/Elieez/PricePilot/internal/state"
	"github.com/Elieez/PricePilot/logger"
	"github.com/Elieez/PricePilot/services/cache"
	"github.com/Elieez/PricePilot/services/notifier"
	"github.com/Elieez/PricePilot/services/worker"
)

// exitNoChange tells the external scheduler "ran successfully, nothing new",
// as distinct from both "found something" (0) and "crashed" (1)
const exitNoChange = 78

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default.WithField("run_id", uuid.NewString())

	// Load and validate configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	// Set up context with signal handling; an interrupted pass never persists
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	store, err := state.New(cfg.State)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize state store")
		return 1
	}
	defer store.Close()

	blockCache := cache.New(cfg.Cache)

	ntf, err := notifier.New(cfg.Notify)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize notifier")
		return 1
	}

	// One snapshot per run, shared read-only across monitors
	var snap *fx.Snapshot
	if cfg.CurrencyOutput != "" {
		svc := fx.NewService(cfg.FX, fx.NewFileRepo(filepath.Join(cfg.State.Dir, "fx.json")))
		snap = svc.Rates()
		if snap == nil {
			log.Warn().Msg("No FX rates available, prices will not be converted")
		}
	}

	// Construct adapters; a misconfigured monitor is skipped, not fatal
	deps := adapter.Deps{
		Cache:     blockCache,
		BlockTime: time.Duration(cfg.Cache.BlockSeconds) * time.Second,
	}
	var monitors []worker.Monitor
	for _, mcfg := range cfg.Monitors {
		ad, err := adapter.New(mcfg, deps)
		if err != nil {
			log.Error().Err(err).Str("monitor", mcfg.Slug).Msg("Skipping misconfigured monitor")
			continue
		}
		monitors = append(monitors, worker.Monitor{Cfg: mcfg, Adapter: ad})
	}
	if len(monitors) == 0 {
		log.Error().Msg("No runnable monitors configured")
		return 1
	}

	log.Info().
		Int("monitor_count", len(monitors)).
		Str("currency_output", cfg.CurrencyOutput).
		Msg("Starting monitoring pass")

	w := worker.New(ctx, monitors, store, ntf, snap, cfg)
	if !w.Run() {
		return exitNoChange
	}
	return 0
}
