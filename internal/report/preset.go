// Package report aggregates receipts for the dashboard.
package report

import (
	"fmt"
	"strings"
	"time"

	"temple/internal/core"
)

// Preset names a dashboard period.
type Preset string

const (
	Today     Preset = "today"
	Yesterday Preset = "yesterday"
	Last7     Preset = "last7"
	Last30    Preset = "last30"
)

// Presets lists the periods in display order.
var Presets = []Preset{Today, Yesterday, Last7, Last30}

func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", core.Invalid("preset", fmt.Sprintf("%q is not one of today, yesterday, last7, last30", s))
}

// Resolve gives the inclusive civil-date range the preset covers on the day
// now falls on, in now's location. lastN periods end today.
func (p Preset) Resolve(now time.Time) (core.DateRange, error) {
	today := core.DateOf(now)
	switch p {
	case Today:
		return core.SingleDay(today), nil
	case Yesterday:
		return core.SingleDay(today.AddDays(-1)), nil
	case Last7:
		return core.DateRange{From: today.AddDays(-6), To: today}, nil
	case Last30:
		return core.DateRange{From: today.AddDays(-29), To: today}, nil
	default:
		return core.DateRange{}, core.Invalid("preset", fmt.Sprintf("unknown preset %q", string(p)))
	}
}
