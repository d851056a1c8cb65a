package core

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format for civil dates.
	DateLayout = "2006-01-02"
	// DisplayLayout is how receipts show their timestamp. The previous
	// application also stored timestamps in this form.
	DisplayLayout = "02/01/2006 15:04:05"
)

// Date is a calendar day, held as midnight in its location.
type Date struct {
	time.Time
}

// NewDate creates a Date for year, month, day in loc.
func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

// DateOf is the calendar day t falls on, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d, t.Location())
}

// ParseDate reads a YYYY-MM-DD day in loc.
func ParseDate(s string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return Date{}, Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return Date{Time: t}, nil
}

// AddDays moves by whole calendar days, independent of DST.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Start is 00:00:00.000 of the day.
func (d Date) Start() time.Time {
	return d.Time
}

// End is 23:59:59.999 of the day.
func (d Date) End() time.Time {
	return d.Time.AddDate(0, 0, 1).Add(-time.Millisecond)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// DateRange is an inclusive span of days.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// SingleDay is the range covering d only.
func SingleDay(d Date) DateRange {
	return DateRange{From: d, To: d}
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return Invalid("range", "needs both from and to")
	}
	if r.To.Before(r.From.Time) {
		return Invalid("range", "to is before from")
	}
	return nil
}

// Contains reports whether t falls within the range, inclusive of both days.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From.Start()) && t.Before(r.To.AddDays(1).Start())
}

// MarshalJSON writes the day as "YYYY-MM-DD", shadowing time.Time's encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s, time.Local)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FormatDisplay renders a receipt timestamp as dd/mm/yyyy HH:MM:ss.
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}

// ParseLegacyTimestamp reads the dd/mm/yyyy HH:MM:ss text the previous
// application stored. A bare dd/mm/yyyy is accepted as midnight.
func ParseLegacyTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DisplayLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("02/01/2006", s, loc); err == nil {
		return t, nil
	}
	// Single digit day or month, as hand-edited rows sometimes have.
	if t, err := time.ParseInLocation("2/1/2006 15:04:05", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, Invalid("date", fmt.Sprintf("%q is not a dd/mm/yyyy HH:MM:ss timestamp", s))
}
