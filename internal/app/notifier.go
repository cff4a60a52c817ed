// internal/app/notifier.go
package app

import (
	"homework_status_bot/internal/domain/failure"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

const opNotify = "send telegram message"

// Notifier delivers texts to the single configured chat.
type Notifier struct {
	client domainTelegram.Client
	chatID string
	logger *logrus.Entry
}

func NewNotifier(client domainTelegram.Client, chatID string, logger *logrus.Entry) *Notifier {
	return &Notifier{
		client: client,
		chatID: chatID,
		logger: logger.WithField("chat_id", chatID),
	}
}

// Notify sends text. Failures are logged here and returned as delivery
// errors; nothing is queued for a later retry.
func (n *Notifier) Notify(text string) error {
	if err := n.client.SendMessage(n.chatID, text); err != nil {
		n.logger.WithError(err).Errorf("Failed to send message to Telegram: %s", text)
		return failure.Wrap(failure.KindDelivery, opNotify, err, "")
	}
	n.logger.Infof("Message sent to Telegram: %s", text)
	return nil
}

// ChatID returns the destination chat.
func (n *Notifier) ChatID() string {
	return n.chatID
}
