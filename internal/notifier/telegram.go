package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers trade alerts to a Telegram chat. When no bot
// token or chat is configured (the mock-data path runs without one) the
// notifier is disabled and every send is a no-op.
type TelegramNotifier struct {
	botToken   string
	chatID     string
	apiBase    string
	maxRetries int
	client     *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		botToken:   botToken,
		chatID:     chatID,
		apiBase:    defaultAPIBase,
		maxRetries: 3,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Enabled reports whether the notifier has a bot token and chat to talk to.
func (t *TelegramNotifier) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// Send delivers a message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	return t.send(text, false)
}

// SendSilent delivers a message without triggering a client notification.
// Used for routine reports like the daily summary.
func (t *TelegramNotifier) SendSilent(text string) error {
	return t.send(text, true)
}

func (t *TelegramNotifier) send(text string, silent bool) error {
	if !t.Enabled() {
		return nil
	}
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	payload := map[string]interface{}{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	if silent {
		payload["disable_notification"] = true
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message, retrying with exponential backoff per the
// notifier's retry policy.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string) error {
	if !t.Enabled() {
		return nil
	}
	var lastErr error
	for i := 0; i <= t.maxRetries; i++ {
		if err := t.Send(text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, t.maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", t.maxRetries+1, lastErr)
}
