package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler processes an incoming bot command and returns the reply text.
type CommandHandler func(command string) string

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// StartPolling runs Telegram long polling until the context is cancelled.
// Commands from the configured chat are dispatched to the handler and the
// reply is sent back to the same chat. Returns immediately when the notifier
// is disabled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	if !t.Enabled() {
		log.Printf("[INFO] Telegram not configured, command polling disabled")
		return
	}
	log.Printf("[INFO] Telegram command polling started")
	var offset int64
	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] Telegram command polling stopped")
			return
		default:
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] Failed to fetch Telegram updates: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			if strconv.FormatInt(u.Message.Chat.ID, 10) != t.chatID {
				continue
			}
			cmd := strings.TrimSpace(u.Message.Text)
			if !strings.HasPrefix(cmd, "/") {
				continue
			}
			log.Printf("[INFO] Received command: %s", cmd)
			reply := handler(cmd)
			if reply == "" {
				continue
			}
			if err := t.Send(reply); err != nil {
				log.Printf("[WARN] Failed to send command reply: %v", err)
			}
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	apiURL := fmt.Sprintf("%s/bot%s/getUpdates?timeout=30&offset=%d", t.apiBase, t.botToken, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	var parsed updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram API returned ok=false")
	}
	return parsed.Result, nil
}
