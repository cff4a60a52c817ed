// internal/domain/homework/validate.go
package homework

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"homework_status_bot/internal/domain/failure"
)

const opExtract = "extract latest homework"

// recordDTO mirrors one element of the "homeworks" list.
type recordDTO struct {
	ID     int64   `json:"id"`
	Name   *string `json:"homework_name"`
	Status *string `json:"status"`
}

// ExtractLatest returns the newest homework in resp, or nil when the list is
// empty. The API returns entries newest-first.
func ExtractLatest(resp *PollResponse) (*Record, error) {
	if resp == nil || resp.Fields == nil {
		return nil, failure.New(failure.KindShape, opExtract, "response is not an object")
	}

	raw, ok := resp.Fields[FieldHomeworks]
	if !ok {
		return nil, failure.New(failure.KindMissingField, opExtract, fmt.Sprintf("key %q is missing", FieldHomeworks))
	}

	var list []json.RawMessage
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, failure.New(failure.KindShape, opExtract, fmt.Sprintf("%q is null, expected a list", FieldHomeworks))
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, failure.Wrap(failure.KindShape, opExtract, err, fmt.Sprintf("%q is not a list", FieldHomeworks))
	}
	if len(list) == 0 {
		return nil, nil
	}

	var entry map[string]json.RawMessage
	if err := json.Unmarshal(list[0], &entry); err != nil || entry == nil {
		return nil, failure.Wrap(failure.KindShape, opExtract, err, "homework entry is not an object")
	}

	var dto recordDTO
	if err := json.Unmarshal(list[0], &dto); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, failure.Wrap(failure.KindShape, opExtract, err,
				fmt.Sprintf("homework entry field %q is %s, expected %s", typeErr.Field, typeErr.Value, typeErr.Type))
		}
		return nil, failure.Wrap(failure.KindShape, opExtract, err, "homework entry has wrong field types")
	}

	rec := &Record{ID: dto.ID}
	if dto.Name != nil {
		rec.Name = *dto.Name
	}
	if dto.Status != nil {
		rec.Status = Status(*dto.Status)
	}
	return rec, nil
}
