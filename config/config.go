package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// Config represents the application configuration, loaded from a YAML file
// with environment variable overrides for deployment-specific values.
type Config struct {
	// CurrencyOutput is the currency offers are converted to before notifying
	CurrencyOutput string `yaml:"currency_output"`

	Run     RunConfig     `yaml:"run"`
	FX      FXConfig      `yaml:"fx"`
	State   StateConfig   `yaml:"state"`
	Cache   CacheConfig   `yaml:"cache"`
	Notify  NotifyConfig  `yaml:"notify"`
	Filters FilterConfig  `yaml:"filters"`

	Monitors []MonitorConfig `yaml:"monitors" validate:"required,min=1,unique=Slug,dive"`
}

// RunConfig bounds a single monitoring pass
type RunConfig struct {
	// SampleLimit caps discovered URLs per listing page
	SampleLimit int `yaml:"sample_limit_per_run" validate:"gte=0"`
	// JitterMs is the [lower, upper] randomized delay between candidate fetches
	JitterMs []int `yaml:"jitter_ms" validate:"omitempty,len=2"`
}

// FXConfig configures the currency rate provider and cache
type FXConfig struct {
	Endpoint     string   `yaml:"endpoint"`
	Base         string   `yaml:"base"`
	Symbols      []string `yaml:"symbols"`
	RefreshHours int      `yaml:"refresh_hours" validate:"gte=0"`
}

// StateConfig selects and configures the dedup state backend
type StateConfig struct {
	Backend    string `yaml:"backend" validate:"omitempty,oneof=file redis sqlite"`
	Dir        string `yaml:"dir"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	SQLitePath string `yaml:"sqlite_path"`
}

// CacheConfig configures the block cache used after rate-limited responses
type CacheConfig struct {
	Backend      string `yaml:"backend" validate:"omitempty,oneof=memory memcache"`
	MemcacheAddr string `yaml:"memcache_addr"`
	BlockSeconds int    `yaml:"block_seconds" validate:"gte=0"`
}

// NotifyConfig configures the notification destination. With neither a
// webhook nor a Telegram chat configured, payloads are only logged.
type NotifyConfig struct {
	DiscordWebhook string `yaml:"discord_webhook"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id"`
}

// FilterConfig holds brand and discount criteria. At monitor level the
// brand sets are merged with the global sets and the discount threshold,
// when set, overrides the global one.
type FilterConfig struct {
	IncludeBrands      []string `yaml:"include_brands"`
	ExcludeBrands      []string `yaml:"exclude_brands"`
	RequireDiscountPct *int     `yaml:"require_discount_pct"`
}

// SelectorConfig holds the CSS selection patterns for the generic adapter
type SelectorConfig struct {
	Card       string `yaml:"card"`
	Link       string `yaml:"link"`
	Title      string `yaml:"title"`
	Price      string `yaml:"price"`
	PrevPrice  string `yaml:"prev_price"`
	Image      string `yaml:"image"`
	PriceRegex string `yaml:"price_regex"`
}

// MonitorConfig represents one configured monitor
type MonitorConfig struct {
	Slug        string         `yaml:"slug" validate:"required"`
	Name        string         `yaml:"name"`
	Adapter     string         `yaml:"adapter" validate:"required"`
	ListingURLs []string       `yaml:"listing_urls" validate:"required,min=1,dive,url"`
	Currency    string         `yaml:"currency"`
	SiteBase    string         `yaml:"site_base"`
	QueryParams []string       `yaml:"query_params"`
	Selectors   SelectorConfig `yaml:"selectors"`
	Filters     FilterConfig   `yaml:"filters"`
}

// Load reads the configuration file, applies environment overrides and defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfiguration(fmt.Sprintf("failed to read config file %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.NewConfiguration("failed to parse config file", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv overrides deployment-specific values from environment variables
func (c *Config) applyEnv() {
	c.Notify.DiscordWebhook = getEnv("DISCORD_WEBHOOK", c.Notify.DiscordWebhook)
	c.Notify.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", c.Notify.TelegramToken)
	c.Notify.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", c.Notify.TelegramChatID)
	c.State.Dir = getEnv("STATE_DIR", c.State.Dir)
	c.State.RedisAddr = getEnv("REDIS_ADDR", c.State.RedisAddr)
	c.Cache.MemcacheAddr = getEnv("MEMCACHE_ADDR", c.Cache.MemcacheAddr)
}

func (c *Config) applyDefaults() {
	if c.CurrencyOutput != "" {
		c.CurrencyOutput = strings.ToUpper(c.CurrencyOutput)
	}
	if c.Run.SampleLimit == 0 {
		c.Run.SampleLimit = 30
	}
	if len(c.Run.JitterMs) == 0 {
		c.Run.JitterMs = []int{800, 1600}
	}
	if c.FX.Endpoint == "" {
		c.FX.Endpoint = "https://api.exchangerate.host/latest"
	}
	if c.FX.Base == "" {
		c.FX.Base = "EUR"
	}
	if len(c.FX.Symbols) == 0 {
		c.FX.Symbols = []string{"SEK", "EUR", "USD", "GBP"}
	}
	if c.FX.RefreshHours == 0 {
		c.FX.RefreshHours = 24
	}
	if c.State.Backend == "" {
		c.State.Backend = "file"
	}
	if c.State.Dir == "" {
		c.State.Dir = "state"
	}
	if c.State.RedisAddr == "" {
		c.State.RedisAddr = "localhost:6379"
	}
	if c.State.SQLitePath == "" {
		c.State.SQLitePath = "state/pricepilot.db"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.MemcacheAddr == "" {
		c.Cache.MemcacheAddr = "localhost:11211"
	}
	if c.Cache.BlockSeconds == 0 {
		c.Cache.BlockSeconds = 300
	}
}

// Validate checks the configuration shape. Adapter-specific requirements are
// checked when the adapter is constructed, so a broken monitor is skipped
// instead of failing the whole process.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errs.NewConfiguration("invalid configuration", err)
	}

	if len(c.Run.JitterMs) == 2 && c.Run.JitterMs[0] > c.Run.JitterMs[1] {
		return errs.NewConfiguration(
			fmt.Sprintf("jitter_ms lower bound %d exceeds upper bound %d", c.Run.JitterMs[0], c.Run.JitterMs[1]), nil)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
