// internal/domain/homework/record.go
package homework

import "encoding/json"

// Record is a single homework entry as returned by the source API.
// An empty Name or Status means the field was absent (or null) in the payload.
type Record struct {
	ID     int64
	Name   string
	Status Status
}

// PollResponse is the decoded body of one source API answer.
// Fields keeps the raw top-level members so that a missing key can be told
// apart from an empty one.
type PollResponse struct {
	CurrentDate    int64
	HasCurrentDate bool
	Fields         map[string]json.RawMessage
}

const (
	FieldHomeworks   = "homeworks"
	FieldCurrentDate = "current_date"
)
