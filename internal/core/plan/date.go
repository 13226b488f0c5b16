// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar day. It is stored as midnight UTC so that day arithmetic
// never crosses a DST boundary.
type Date struct {
	time.Time
}

// NewDate builds the calendar day y-m-d.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

/*
ParseDate reads a calendar day.

Accepted forms are "2006-01-02" and any timestamp that starts with one
("2024-03-05T00:00:00.000Z"). The written date is taken verbatim: the time and
offset that follow it are ignored.
*/
func ParseDate(raw string) (Date, error) {
	if len(raw) < len(time.DateOnly) {
		return Date{}, fmt.Errorf("plan: invalid date %q", raw)
	}

	parsed, err := time.Parse(time.DateOnly, raw[:len(time.DateOnly)])
	if err != nil {
		return Date{}, fmt.Errorf("plan: invalid date %q: %w", raw, err)
	}

	return Date{parsed}, nil
}

// String formats the day as YYYY-MM-DD, or "" for the zero date.
func (date Date) String() string {
	if date.IsZero() {
		return ""
	}
	return date.Format(time.DateOnly)
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the signed number of whole days from date to other.
func (date Date) DaysUntil(other Date) int {
	return int((other.Unix() - date.Unix()) / secondsPerDay)
}

// AddDays returns the day n days after date (before it when n is negative).
func (date Date) AddDays(n int) Date {
	return Date{date.AddDate(0, 0, n)}
}

// EndOfDay renders the day as the backend expects plan end dates.
func (date Date) EndOfDay() string {
	return date.Format(time.DateOnly) + "T23:59:59Z"
}

// MarshalJSON writes "YYYY-MM-DD", or null for the zero date.
func (date Date) MarshalJSON() ([]byte, error) {
	if date.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(date.String())
}

// UnmarshalJSON accepts null, "", a date, or a timestamp.
func (date *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*date = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("plan: date must be a string: %w", err)
	}

	if raw == "" {
		*date = Date{}
		return nil
	}

	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}

	*date = parsed
	return nil
}
