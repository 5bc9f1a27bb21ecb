// Package notify delivers text messages to chat channels and broadcasts trading signals.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/sportswatch/pkg/config"
	"github.com/umputun/sportswatch/pkg/signal"
)

// Sender delivers a message to one channel. Send never returns an error, failures are logged and reported as false.
type Sender interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, text string) bool
}

// channel names
const (
	ChannelTelegram = "telegram"
	ChannelDiscord  = "discord"
	ChannelWhatsApp = "whatsapp"
)

// New makes senders for all channels from config, disabled ones are included and report false on send
func New(cfg config.NotifyConfig) []Sender {
	return []Sender{
		NewTelegram(cfg.Telegram, cfg.Timeout),
		NewDiscord(cfg.Discord, cfg.Timeout),
		NewWhatsApp(cfg.WhatsApp, cfg.Timeout),
	}
}

// DeliveryObserver is called after each delivery attempt, used for metrics
type DeliveryObserver func(channel string, ok bool)

// Broadcaster sends messages to a set of senders
type Broadcaster struct {
	senders  map[string]Sender
	observer DeliveryObserver
}

// NewBroadcaster makes broadcaster for senders, keyed by sender name
func NewBroadcaster(senders ...Sender) *Broadcaster {
	res := &Broadcaster{senders: make(map[string]Sender, len(senders))}
	for _, s := range senders {
		res.senders[s.Name()] = s
	}
	return res
}

// WithObserver sets delivery observer
func (b *Broadcaster) WithObserver(o DeliveryObserver) *Broadcaster {
	b.observer = o
	return b
}

// Channels returns names of all registered channels, sorted
func (b *Broadcaster) Channels() []string {
	res := make([]string, 0, len(b.senders))
	for name := range b.senders {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Broadcast sends text to the selected channels in parallel, all registered channels if none selected.
// Returns delivery result per channel, unknown channel names are reported as false.
// Each channel is sent to at most once, a failed channel doesn't affect the others.
func (b *Broadcaster) Broadcast(ctx context.Context, text string, channels ...string) map[string]bool {
	if len(channels) == 0 {
		channels = b.Channels()
	}

	res := make(map[string]bool, len(channels))
	var mu sync.Mutex
	var g errgroup.Group // no shared context, one channel never cancels another
	seen := make(map[string]bool, len(channels))
	for _, name := range channels {
		if seen[name] {
			continue
		}
		seen[name] = true
		sender, ok := b.senders[name]
		if !ok {
			log.Printf("[WARN] unknown channel %q, skipped", name)
			res[name] = false
			continue
		}
		g.Go(func() error {
			ok := sender.Send(ctx, text)
			mu.Lock()
			res[name] = ok
			mu.Unlock()
			if b.observer != nil {
				b.observer(name, ok)
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// BroadcastSignal parses raw signal, formats it and sends to the selected channels.
// Parse errors are returned before anything is sent.
func (b *Broadcaster) BroadcastSignal(ctx context.Context, raw string, stopLoss, takeProfit *decimal.Decimal,
	channels ...string) (map[string]bool, error) {
	sig, err := signal.Parse(raw, stopLoss, takeProfit)
	if err != nil {
		return nil, err
	}
	msg := signal.Format(sig)
	log.Printf("[INFO] broadcasting signal %q", msg)
	return b.Broadcast(ctx, msg, channels...), nil
}

// postJSON sends payload as JSON and checks for 2xx response
func postJSON(ctx context.Context, client *http.Client, url string, payload any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
