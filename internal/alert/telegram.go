package alert

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"PortSentinel/internal/model"
)

// TelegramSender delivers alerts via the Telegram Bot API.
type TelegramSender struct {
	client   *resty.Client
	botToken string
	chatID   string
	log      zerolog.Logger
}

// NewTelegramSender creates a sender with optional proxy support.
func NewTelegramSender(botToken, chatID, proxyURL string, log zerolog.Logger) *TelegramSender {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err == nil {
			client.SetProxy(proxyURL)
		}
	}
	return &TelegramSender{
		client:   client,
		botToken: botToken,
		chatID:   chatID,
		log:      log.With().Str("component", "telegram").Logger(),
	}
}

// Enabled reports whether bot credentials are configured.
func (t *TelegramSender) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// Send sends one message to the configured chat.
func (t *TelegramSender) Send(text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	resp, err := t.client.R().
		SetBody(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post(apiURL)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramSender) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			t.log.Warn().Err(err).Int("attempt", i+1).Dur("backoff", backoff).Msg("telegram send failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// SendAlerts delivers queued alerts at or above minLevel as one message.
func (t *TelegramSender) SendAlerts(ctx context.Context, alerts []model.Alert, minLevel model.AlertLevel) error {
	if !t.Enabled() {
		return nil
	}

	var kept []model.Alert
	for _, a := range alerts {
		if a.Level.AtLeast(minLevel) {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>Portfolio Alerts (%d)</b>\n", len(kept)))
	for _, a := range kept {
		icon, ok := levelIcons[a.Level]
		if !ok {
			icon = "[?]"
		}
		b.WriteString(fmt.Sprintf("\n%s <b>%s</b>: %s\n", icon, strings.ToUpper(string(a.Level)), a.Title))
		b.WriteString(fmt.Sprintf("Holdings: %s\n", strings.Join(a.AffectedHoldings, ", ")))
		b.WriteString(fmt.Sprintf("Action: %s\n", a.RecommendedAction))
	}
	return t.SendWithRetry(ctx, b.String(), 3)
}
