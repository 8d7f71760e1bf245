package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Activity is one append-only entry on an order's audit trail.
type Activity struct {
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityLog is the ordered activity history stored as a JSON column.
type ActivityLog []Activity

// Append returns a new log with the entry added; the receiver is not mutated.
func (l ActivityLog) Append(entry Activity) ActivityLog {
	out := make(ActivityLog, 0, len(l)+1)
	out = append(out, l...)
	return append(out, entry)
}

func (l ActivityLog) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ActivityLog) Scan(value any) error {
	if value == nil {
		*l = ActivityLog{}
		return nil
	}
	raw, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("activity log: %w", err)
	}
	if len(raw) == 0 {
		*l = ActivityLog{}
		return nil
	}
	return json.Unmarshal(raw, l)
}
