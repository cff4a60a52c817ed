// internal/domain/telegram/client.go
package telegram

// Client sends plain-text messages to a Telegram chat. The chat id is either
// a numeric id or a public @username.
type Client interface {
	SendMessage(chatID string, text string) error
}
