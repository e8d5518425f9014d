/*
business.go - Library-backed holiday source (rickar/cal + manual overlay)

PURPOSE:
  Alternative Source implementation that delegates to the rickar/cal
  jurisdictional calendar library (national Canadian definitions) with the
  organization's extra observances layered on top. Useful for cross-checking
  the canonical Ontario source; the library's observance shifting differs in
  places from the observed internal calendar, which is exactly why Ontario
  remains the default.

SEE ALSO:
  - ontario.go: canonical computed calendar (default)
  - source.go: Source interface
*/
package calendar

import (
	"sync"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"
)

// Business wraps a rickar/cal business calendar as a Source.
type Business struct {
	cal *cal.BusinessCalendar

	mu    sync.Mutex
	cache map[int]Set
}

// NewBusiness builds a business calendar from the national Canadian holiday
// definitions plus the organization's manual overlay.
func NewBusiness() *Business {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(ca.Holidays...)
	c.AddHoliday(
		&cal.Holiday{
			Name:  "National Day for Truth and Reconciliation",
			Type:  cal.ObservancePublic,
			Month: time.September,
			Day:   30,
			Func:  cal.CalcDayOfMonth,
		},
		&cal.Holiday{
			Name:   "Easter Monday",
			Type:   cal.ObservancePublic,
			Offset: 1,
			Func:   cal.CalcEasterOffset,
		},
	)
	return &Business{cal: c, cache: make(map[int]Set)}
}

func (b *Business) HolidaysFor(year int) Set {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.cache[year]; ok {
		return set
	}

	set := make(Set, 16)
	for d := NewDate(year, time.January, 1); d.Year() == year; d = d.AddDays(1) {
		actual, observed, h := b.cal.IsHoliday(d.Time())
		if actual || observed {
			set[d] = Holiday{Date: d, Name: h.Name}
		}
	}
	b.cache[year] = set
	return set
}

func (b *Business) IsHoliday(d Date) bool {
	return b.HolidaysFor(d.Year()).Contains(d)
}
