// internal/domain/notification/repository.go
package notification

import "context"

// Journal records delivery attempts. It is write-only: the poll loop never
// reads its own history back.
type Journal interface {
	Record(ctx context.Context, d *Delivery) error
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *Delivery) error { return nil }
