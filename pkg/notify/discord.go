package notify

import (
	"context"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/sportswatch/pkg/config"
)

// Discord posts messages to a webhook, single attempt
type Discord struct {
	cfg    config.DiscordConfig
	client *http.Client
}

// NewDiscord makes discord sender
func NewDiscord(cfg config.DiscordConfig, timeout time.Duration) *Discord {
	return &Discord{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Name returns channel name
func (d *Discord) Name() string { return ChannelDiscord }

// Enabled reports whether webhook url is set
func (d *Discord) Enabled() bool { return d.cfg.WebhookURL != "" }

// Send posts text to the webhook
func (d *Discord) Send(ctx context.Context, text string) bool {
	if !d.Enabled() {
		log.Printf("[WARN] discord webhook not configured, message not sent")
		return false
	}
	if err := postJSON(ctx, d.client, d.cfg.WebhookURL, map[string]string{"content": text}, nil); err != nil {
		log.Printf("[ERROR] discord send failed: %v", err)
		return false
	}
	log.Printf("[INFO] discord message sent")
	return true
}
