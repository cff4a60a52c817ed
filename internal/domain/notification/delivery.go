// internal/domain/notification/delivery.go
package notification

import (
	"database/sql"
	"time"
)

// Kind tells why a message was sent.
type Kind string

const (
	KindStatusChange Kind = "STATUS_CHANGE"
	KindFailureAlert Kind = "FAILURE_ALERT"
)

// Delivery is one attempt to send a message to the chat.
// Corresponds to the 'notification_deliveries' table.
type Delivery struct {
	ID           int64
	CycleID      string
	ChatID       string
	Kind         Kind
	HomeworkName sql.NullString // only for status changes
	Status       sql.NullString
	Text         string
	Delivered    bool
	Error        sql.NullString
	CreatedAt    time.Time
}
