package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONDate wraps time.Time for date-only columns (installation dates,
// document issue dates) so we can control both JSON un/marshaling and SQL
// driver encoding.
type JSONDate time.Time

// UnmarshalJSON lets us parse either the plain date form ("2024-01-05")
// or a full RFC3339 timestamp, keeping only the date part.
func (d *JSONDate) UnmarshalJSON(b []byte) error {
	// strip quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = JSONDate(time.Time{})
		return nil
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = JSONDate(t)
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("JSONDate.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	y, m, day := t.Date()
	*d = JSONDate(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
	return nil
}

// MarshalJSON always emits the plain date form.
func (d JSONDate) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(DateLayout))
}

// Value implements driver.Valuer so GORM can turn JSONDate into a SQL
// DATE parameter.
func (d JSONDate) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements sql.Scanner so GORM can read DATE columns back.
func (d *JSONDate) Scan(src interface{}) error {
	if src == nil {
		*d = JSONDate(time.Time{})
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*d = JSONDate(v)
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("JSONDate.Scan: unsupported type %T", src)
	}
}

func (d *JSONDate) parse(s string) error {
	layouts := []string{
		DateLayout,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = JSONDate(t)
			return nil
		}
	}
	return fmt.Errorf("JSONDate.parse: cannot parse %q", s)
}

// Time unwraps the underlying time value.
func (d JSONDate) Time() time.Time { return time.Time(d) }

func (d JSONDate) IsZero() bool { return time.Time(d).IsZero() }

// Before compares calendar dates.
func (d JSONDate) Before(other JSONDate) bool {
	return time.Time(d).Before(time.Time(other))
}
