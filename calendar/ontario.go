/*
ontario.go - Canonical computed holiday calendar

PURPOSE:
  Computes the organization's observed Ontario statutory holiday calendar for
  any year. This is the single source of truth for non-working days; it is
  unit-tested against published holiday dates (see ontario_test.go).

HOLIDAYS:
  New Year's Day              Jan 1
  Family Day                  3rd Monday of February
  Good Friday                 Easter - 2 days
  Easter Sunday               internal marker (always a Sunday)
  Easter Monday               Easter + 1 day
  Victoria Day                Monday strictly before May 25
  Canada Day                  Jul 1, observed Jul 2 when Jul 1 is a Sunday
  Civic Holiday               1st Monday of August
  Labour Day                  1st Monday of September
  Truth and Reconciliation    Sep 30 (from 2021)
  Thanksgiving                2nd Monday of October
  Remembrance Day             Nov 11
  Christmas Day               Dec 25
  Boxing Day                  Dec 26

VICTORIA DAY:
  Two formulas circulated historically ("Monday before May 25" vs "Monday
  on/before May 24"). They agree in every year: the Monday strictly before
  the 25th is the Monday on/before the 24th. The strict form is kept.

CONCURRENCY:
  Per-year sets are computed once and cached under a mutex; sets are
  write-once/read-many and safe to share across concurrent readers.
*/
package calendar

import (
	"sync"
	"time"
)

// truthAndReconciliationStart is the first year Sep 30 was observed.
const truthAndReconciliationStart = 2021

// Ontario is the canonical holiday source.
type Ontario struct {
	mu    sync.Mutex
	cache map[int]Set
}

func NewOntario() *Ontario {
	return &Ontario{cache: make(map[int]Set)}
}

func (o *Ontario) HolidaysFor(year int) Set {
	o.mu.Lock()
	defer o.mu.Unlock()
	if set, ok := o.cache[year]; ok {
		return set
	}
	set := computeOntario(year)
	o.cache[year] = set
	return set
}

func (o *Ontario) IsHoliday(d Date) bool {
	return o.HolidaysFor(d.Year()).Contains(d)
}

func computeOntario(year int) Set {
	set := make(Set, 16)
	add := func(d Date, name string) { set[d] = Holiday{Date: d, Name: name} }

	add(NewDate(year, time.January, 1), "New Year's Day")
	add(NthWeekday(year, time.February, time.Monday, 3), "Family Day")

	easter := Easter(year)
	add(easter.AddDays(-2), "Good Friday")
	add(easter, "Easter Sunday")
	add(easter.AddDays(1), "Easter Monday")

	add(victoriaDay(year), "Victoria Day")
	add(canadaDay(year), "Canada Day")
	add(NthWeekday(year, time.August, time.Monday, 1), "Civic Holiday")
	add(NthWeekday(year, time.September, time.Monday, 1), "Labour Day")
	if year >= truthAndReconciliationStart {
		add(NewDate(year, time.September, 30), "National Day for Truth and Reconciliation")
	}
	add(NthWeekday(year, time.October, time.Monday, 2), "Thanksgiving")
	add(NewDate(year, time.November, 11), "Remembrance Day")
	add(NewDate(year, time.December, 25), "Christmas Day")
	add(NewDate(year, time.December, 26), "Boxing Day")

	return set
}

// victoriaDay returns the Monday strictly before May 25.
func victoriaDay(year int) Date {
	may25 := NewDate(year, time.May, 25)
	back := (int(may25.Weekday()) + 6) % 7
	if back == 0 {
		back = 7
	}
	return may25.AddDays(-back)
}

// canadaDay returns Jul 1, shifted to Jul 2 when Jul 1 falls on a Sunday.
func canadaDay(year int) Date {
	d := NewDate(year, time.July, 1)
	if d.Weekday() == time.Sunday {
		return d.AddDays(1)
	}
	return d
}
