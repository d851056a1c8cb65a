package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"temple/internal/core"
	"temple/internal/report"
)

// RangeParams is a date span given either as a preset or as from/to days.
// Query strings, form bodies and JSON bodies all bind to it.
type RangeParams struct {
	Preset string `form:"preset" json:"preset"`
	From   string `form:"from" json:"from"`
	To     string `form:"to" json:"to"`
}

// Resolve turns the params into an inclusive range. A preset wins over
// from/to. A lone from or to covers that one day; nothing at all means
// fallback.
func (p RangeParams) Resolve(now time.Time, loc *time.Location, fallback report.Preset) (core.DateRange, error) {
	now = now.In(loc)
	if strings.TrimSpace(p.Preset) != "" {
		preset, err := report.ParsePreset(p.Preset)
		if err != nil {
			return core.DateRange{}, err
		}
		return preset.Resolve(now)
	}

	from, err := parseOptionalDate("from", p.From, loc)
	if err != nil {
		return core.DateRange{}, err
	}
	to, err := parseOptionalDate("to", p.To, loc)
	if err != nil {
		return core.DateRange{}, err
	}
	switch {
	case from.IsZero() && to.IsZero():
		return fallback.Resolve(now)
	case from.IsZero():
		from = to
	case to.IsZero():
		to = from
	}
	rng := core.DateRange{From: from, To: to}
	return rng, rng.Validate()
}

// ParseReceiptFilter reads pooja, name, from and to from the query string.
func ParseReceiptFilter(c *gin.Context, loc *time.Location) (core.ReceiptFilter, error) {
	from, err := parseOptionalDate("from", c.Query("from"), loc)
	if err != nil {
		return core.ReceiptFilter{}, err
	}
	to, err := parseOptionalDate("to", c.Query("to"), loc)
	if err != nil {
		return core.ReceiptFilter{}, err
	}
	return core.ReceiptFilter{
		Pooja: strings.TrimSpace(c.Query("pooja")),
		Name:  strings.TrimSpace(c.Query("name")),
		From:  from,
		To:    to,
	}, nil
}

// ParseID reads the :id path parameter.
func ParseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid("id", fmt.Sprintf("%q is not a positive integer", raw))
	}
	return id, nil
}

func parseOptionalDate(field, s string, loc *time.Location) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(s, loc)
	if err != nil {
		return core.Date{}, core.Invalid(field, fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return d, nil
}

// bindBody decodes the request body into dst, reporting malformed input as
// a validation error.
func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return core.Invalid("body", err.Error())
	}
	return nil
}
