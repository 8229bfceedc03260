package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// DateTimeLayout is the textual timestamp format used on the wire.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateLayout is used by the analytics endpoints.
const DateLayout = "2006-01-02"

// DateTime is a time.Time serialized with DateTimeLayout.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to whole seconds.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Second)}
}

// ParseDateTime parses a DateTimeLayout string in the local time zone.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Time: t}, nil
}

func (d DateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateTimeLayout)
}

// MarshalJSON writes null for the zero time.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = DateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
