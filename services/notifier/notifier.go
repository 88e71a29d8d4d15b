// Package notifier dispatches offer notifications to a configured
// destination. With no destination configured, payloads are only logged.
package notifier

import (
	"context"

	"github.com/Elieez/PricePilot/config"
	"github.com/Elieez/PricePilot/logger"
)

// Notification is the structured payload for one qualifying offer
type Notification struct {
	Title        string
	Link         string
	Description  string
	Footer       string
	ThumbnailURL string
}

// Notifier dispatches a notification
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// New selects the destination from configuration: Discord webhook first,
// then Telegram, else local logging only.
func New(cfg config.NotifyConfig) (Notifier, error) {
	if cfg.DiscordWebhook != "" {
		return NewDiscord(cfg.DiscordWebhook), nil
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		return NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	}
	return NewLogNotifier(), nil
}

// LogNotifier logs payloads instead of sending them
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates the dry-run notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.ForComponent("notifier")}
}

// Send logs the payload locally; nothing leaves the process
func (l *LogNotifier) Send(_ context.Context, n Notification) error {
	l.log.Info().
		Str("title", n.Title).
		Str("link", n.Link).
		Str("description", n.Description).
		Str("footer", n.Footer).
		Msg("Dry alert (no destination configured)")
	return nil
}
