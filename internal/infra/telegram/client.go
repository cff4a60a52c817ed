// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"
)

// NewBot creates a send-only bot. Offline skips the getMe round trip so that
// startup never depends on Telegram being reachable. An empty apiURL means the
// public Bot API.
func NewBot(token, apiURL string, timeout time.Duration) (*telebot.Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// chatRecipient addresses a chat by its id or @username exactly as configured.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// SendMessage sends a text message to the given chat (user, group or channel).
// Link previews are disabled.
func (tba *TelebotAdapter) SendMessage(chatID string, text string) error {
	_, err := tba.bot.Send(chatRecipient(chatID), text, &telebot.SendOptions{
		DisableWebPagePreview: true,
	})
	return err
}
