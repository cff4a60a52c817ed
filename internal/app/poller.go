// internal/app/poller.go
package app

import (
	"context"
	"database/sql"
	"time"

	"homework_status_bot/internal/domain/failure"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const failureAlertPrefix = "Сбой в работе программы: "

// HomeworkSource is the source API as seen by the poll loop.
type HomeworkSource interface {
	FetchUpdates(ctx context.Context, cursor int64) (*homework.PollResponse, error)
}

// StatusPoller holds everything one poll cycle needs, including the state
// carried between cycles. It is not safe for concurrent use; the scheduler
// never runs two cycles at once.
type StatusPoller struct {
	source   HomeworkSource
	notifier *Notifier
	journal  notification.Journal
	logger   *logrus.Entry
	newID    func() string

	cursor     int64
	lastStatus homework.Status
	failing    bool // an alert was already sent for the current failure streak
}

func NewStatusPoller(
	source HomeworkSource,
	notifier *Notifier,
	journal notification.Journal,
	logger *logrus.Entry,
	now func() time.Time,
) *StatusPoller {
	if journal == nil {
		journal = notification.NopJournal{}
	}
	if now == nil {
		now = time.Now
	}
	return &StatusPoller{
		source:     source,
		notifier:   notifier,
		journal:    journal,
		logger:     logger,
		newID:      uuid.NewString,
		cursor:     now().Unix(),
		lastStatus: homework.StatusUnknown,
	}
}

// Cursor returns the from_date used by the next cycle.
func (p *StatusPoller) Cursor() int64 { return p.cursor }

// LastStatus returns the last status that was successfully reported.
func (p *StatusPoller) LastStatus() homework.Status { return p.lastStatus }

// RunCycle performs one fetch, compare and notify pass. Every error is
// logged and handled here; it is returned only so callers can report it.
func (p *StatusPoller) RunCycle(ctx context.Context) error {
	cycleID := p.newID()
	log := p.logger.WithFields(logrus.Fields{"cycle_id": cycleID, "cursor": p.cursor})

	if err := p.poll(ctx, cycleID, log); err != nil {
		p.handleFailure(ctx, cycleID, log, err)
		return err
	}

	if p.failing {
		log.Info("Poll cycle succeeded, failure streak is over")
		p.failing = false
	}
	return nil
}

func (p *StatusPoller) poll(ctx context.Context, cycleID string, log *logrus.Entry) error {
	resp, err := p.source.FetchUpdates(ctx, p.cursor)
	if err != nil {
		return err
	}
	if resp.HasCurrentDate && resp.CurrentDate > 0 {
		p.cursor = resp.CurrentDate
	} else {
		log.Warn("Response has no current_date, cursor is not advanced")
	}

	rec, err := homework.ExtractLatest(resp)
	if err != nil {
		return err
	}
	if rec == nil {
		log.Debug("No change: no new homework statuses")
		return nil
	}

	// Formatting first surfaces a missing or unknown status even when it
	// would compare equal to the last one.
	text, err := homework.FormatNotification(rec)
	if err != nil {
		return err
	}

	log = log.WithFields(logrus.Fields{"homework": rec.Name, "status": rec.Status})
	if rec.Status == p.lastStatus {
		log.Debug("Status unchanged, notification suppressed")
		return nil
	}

	sendErr := p.notifier.Notify(text)
	p.record(ctx, log, &notification.Delivery{
		CycleID:      cycleID,
		Kind:         notification.KindStatusChange,
		HomeworkName: sql.NullString{String: rec.Name, Valid: true},
		Status:       sql.NullString{String: string(rec.Status), Valid: true},
		Text:         text,
	}, sendErr)
	if sendErr != nil {
		// Delivery errors never fail the cycle; the status stays unreported.
		return nil
	}

	log.WithField("previous_status", p.lastStatus).Info("Homework status change reported")
	p.lastStatus = rec.Status
	return nil
}

func (p *StatusPoller) handleFailure(ctx context.Context, cycleID string, log *logrus.Entry, err error) {
	text := failureAlertPrefix + err.Error()
	log.WithError(err).WithField("kind", failure.KindOf(err)).Error(text)

	if p.failing {
		log.Debug("Failure streak already reported, alert skipped")
		return
	}
	p.failing = true

	sendErr := p.notifier.Notify(text)
	p.record(ctx, log, &notification.Delivery{
		CycleID: cycleID,
		Kind:    notification.KindFailureAlert,
		Text:    text,
	}, sendErr)
}

func (p *StatusPoller) record(ctx context.Context, log *logrus.Entry, d *notification.Delivery, sendErr error) {
	d.ChatID = p.notifier.ChatID()
	d.Delivered = sendErr == nil
	if sendErr != nil {
		d.Error = sql.NullString{String: sendErr.Error(), Valid: true}
	}
	if err := p.journal.Record(ctx, d); err != nil {
		log.WithError(err).Warnf("Failed to journal %s delivery", d.Kind)
	}
}
