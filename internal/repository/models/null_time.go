package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// SQLite returns aggregates such as MIN(answered_at) as text, so NullTime
// also accepts the layouts the sqlite driver writes. modernc stores a bound
// time.Time in its String form.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
}

// NullTime is a nullable timestamp.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements the sql.Scanner interface
func (n *NullTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*n = NullTime{}
		return nil
	case time.Time:
		*n = NullTime{Time: v, Valid: true}
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("NullTime Scan: unsupported type %T", value)
	}
}

func (n *NullTime) parse(s string) error {
	if s == "" {
		*n = NullTime{}
		return nil
	}
	// Drop the monotonic clock reading Time.String appends.
	if i := strings.Index(s, " m="); i > 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*n = NullTime{Time: t, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("NullTime Scan: cannot parse %q", s)
}

// Value implements the driver.Valuer interface
func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time, nil
}

// Ptr returns nil for NULL.
func (n NullTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// NewNullTime treats nil as NULL.
func NewNullTime(t *time.Time) NullTime {
	if t == nil || t.IsZero() {
		return NullTime{}
	}
	return NullTime{Time: *t, Valid: true}
}
