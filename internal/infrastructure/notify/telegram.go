package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/ports"
)

// Telegram delivers alert events to a Telegram chat via the bot API. A
// config's target overrides the default chat when set.
type Telegram struct {
	botToken      string
	defaultChatID string
	client        *http.Client
}

var _ ports.Notifier = (*Telegram)(nil)

// NewTelegram registers bot token and default chat identifier.
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken:      botToken,
		defaultChatID: chatID,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify posts one formatted alert message.
func (t *Telegram) Notify(ctx context.Context, event domain.AlertEvent) error {
	if t.botToken == "" || t.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	chatID := event.Target
	if chatID == "" {
		chatID = t.defaultChatID
	}
	if chatID == "" {
		return fmt.Errorf("no chat target for business %d", event.BusinessID)
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", formatAlert(event))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func formatAlert(event domain.AlertEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Low rating alert: %s\n", event.BusinessName)
	fmt.Fprintf(&b, "Source: %s\n", event.Source)
	fmt.Fprintf(&b, "Rating: %.1f\n", event.Rating)
	fmt.Fprintf(&b, "Sentiment: %s (%.2f)\n", event.SentimentLabel, event.SentimentScore)
	if event.Excerpt != "" {
		fmt.Fprintf(&b, "\n%s", event.Excerpt)
	}
	return b.String()
}
