// internal/domain/homework/format.go
package homework

import (
	"fmt"

	"homework_status_bot/internal/domain/failure"
)

const opFormat = "format notification"

// FormatNotification builds the status-change message for rec.
// An unrecognized status is always an error: it usually means the API
// contract has changed.
func FormatNotification(rec *Record) (string, error) {
	if rec == nil || rec.Name == "" {
		return "", failure.New(failure.KindMissingField, opFormat, `key "homework_name" is missing`)
	}
	if rec.Status == StatusUnknown {
		return "", failure.New(failure.KindMissingField, opFormat, `key "status" is missing`)
	}

	verdict, ok := rec.Status.Verdict()
	if !ok {
		return "", failure.New(failure.KindUnknownStatus, opFormat, fmt.Sprintf("unknown homework status %q", rec.Status))
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", rec.Name, verdict), nil
}
