package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/sportswatch/pkg/config"
)

// Telegram sends messages with the bot api, retrying failed attempts with a fixed delay
type Telegram struct {
	cfg    config.TelegramConfig
	client *http.Client
}

type telegramMessage struct {
	ChatID              string `json:"chat_id"`
	Text                string `json:"text"`
	ParseMode           string `json:"parse_mode,omitempty"`
	DisableNotification bool   `json:"disable_notification"`
}

// NewTelegram makes telegram sender, timeout is applied per request
func NewTelegram(cfg config.TelegramConfig, timeout time.Duration) *Telegram {
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	return &Telegram{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Name returns channel name
func (t *Telegram) Name() string { return ChannelTelegram }

// Enabled reports whether bot token and chat id are set
func (t *Telegram) Enabled() bool { return t.cfg.Token != "" && t.cfg.ChatID != "" }

// Send posts text to the chat
func (t *Telegram) Send(ctx context.Context, text string) bool {
	if !t.Enabled() {
		log.Printf("[WARN] telegram not configured, message not sent")
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.APIURL, t.cfg.Token)
	msg := telegramMessage{ChatID: t.cfg.ChatID, Text: text, ParseMode: t.cfg.ParseMode, DisableNotification: t.cfg.Silent}

	attempt := 0
	err := repeater.NewFixed(t.cfg.Retries, t.cfg.RetryDelay).Do(ctx, func() error {
		attempt++
		if err := postJSON(ctx, t.client, url, msg, nil); err != nil {
			log.Printf("[WARN] telegram send failed (attempt %d/%d): %v", attempt, t.cfg.Retries, err)
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] telegram message failed after %d attempts", attempt)
		return false
	}
	log.Printf("[INFO] telegram message sent")
	return true
}
