package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

const webhookUsername = "PricePilot"

// DiscordNotifier sends offers as webhook embeds
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscord creates a Discord webhook notifier
func NewDiscord(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbedThumbnail struct {
	URL string `json:"url,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}

type discordEmbed struct {
	Title       string                 `json:"title,omitempty"`
	URL         string                 `json:"url,omitempty"`
	Description string                 `json:"description,omitempty"`
	Thumbnail   *discordEmbedThumbnail `json:"thumbnail,omitempty"`
	Footer      *discordEmbedFooter    `json:"footer,omitempty"`
}

// Send posts the notification to the webhook
func (d *DiscordNotifier) Send(ctx context.Context, n Notification) error {
	embed := discordEmbed{
		Title:       n.Title,
		URL:         n.Link,
		Description: n.Description,
	}
	if n.Footer != "" {
		embed.Footer = &discordEmbedFooter{Text: n.Footer}
	}
	if n.ThumbnailURL != "" {
		embed.Thumbnail = &discordEmbedThumbnail{URL: n.ThumbnailURL}
	}

	payload := discordWebhookPayload{
		Username: webhookUsername,
		Embeds:   []discordEmbed{embed},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewNotify("discord", "failed to encode payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errs.NewNotify("discord", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return errs.NewNotify("discord", "webhook request failed", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return errs.NewNotify("discord", fmt.Sprintf("webhook status %d", resp.StatusCode), nil)
	}
	return nil
}
