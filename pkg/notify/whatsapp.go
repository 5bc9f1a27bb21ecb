package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/sportswatch/pkg/config"
)

// WhatsApp sends text messages with the cloud api, single attempt
type WhatsApp struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

type whatsappMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// NewWhatsApp makes whatsapp sender
func NewWhatsApp(cfg config.WhatsAppConfig, timeout time.Duration) *WhatsApp {
	return &WhatsApp{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Name returns channel name
func (w *WhatsApp) Name() string { return ChannelWhatsApp }

// Enabled reports whether token, phone id and recipient are set
func (w *WhatsApp) Enabled() bool {
	return w.cfg.Token != "" && w.cfg.PhoneID != "" && w.cfg.ToNumber != ""
}

// Send posts text to the recipient
func (w *WhatsApp) Send(ctx context.Context, text string) bool {
	if !w.Enabled() {
		log.Printf("[WARN] whatsapp not configured, message not sent")
		return false
	}

	msg := whatsappMessage{MessagingProduct: "whatsapp", To: w.cfg.ToNumber, Type: "text"}
	msg.Text.Body = text
	url := fmt.Sprintf("%s/%s/messages", w.cfg.APIURL, w.cfg.PhoneID)
	if err := postJSON(ctx, w.client, url, msg, map[string]string{"Authorization": "Bearer " + w.cfg.Token}); err != nil {
		log.Printf("[ERROR] whatsapp send failed: %v", err)
		return false
	}
	log.Printf("[INFO] whatsapp message sent")
	return true
}
