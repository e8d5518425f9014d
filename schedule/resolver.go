/*
Package schedule predicts payment dates for payment run dates.

PURPOSE:
  The payroll operations team schedules payment runs around weekends and
  statutory holidays following a process that was never written down. This
  package approximates that process deterministically: a "two working days
  back" base rule, weekend/holiday deferral of the run date, and an ordered
  table of hand-curated exceptions for the calendar edge cases where the base
  rule is known to disagree with observed practice.

KEY CONCEPTS IN THIS FILE (resolver.go):
  - Resolver: bound to a target year and a holiday Source; pure and
    deterministic, safe for concurrent use once constructed
  - Effective date: the run date after weekend/holiday deferral
  - Generic rule: walk backward until two working days have been consumed

RESOLUTION ORDER (part of the contract - reordering changes results):
  1. Exception rule table on the effective date (first match wins)
  2. Weekend deferral (Sat/Sun behave like that week's Friday)
  3. Holiday deferral (walk back to the nearest working day)
  4. Generic two-working-days-back walk
  5. Post-generic adjustments (rules.go, adjustment phase)

  Deferral is an explicit bounded loop, not recursion: after each
  adjustment the rule table is consulted again for the new effective date.

FAILURE SEMANTICS:
  None. Every calendar date has a well-defined answer; an exception rule
  whose internal assumption does not hold falls back to the generic result
  inside its own action. Accuracy shortfalls against ground truth are a
  modeling concern for the eval package, never a runtime error here.

SEE ALSO:
  - rules.go: the exception rule table and its changelog
  - calendar: Date arithmetic and holiday sources
*/
package schedule

import (
	"time"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
)

// deferralBound caps the deferral loop. Consecutive non-working days never
// exceed a handful (Christmas through New Year is the worst stretch).
const deferralBound = 31

// Resolver computes the predicted payment date for run dates of its target
// year. It holds only write-once state (the rule table and the source's
// per-year caches) and may be shared across goroutines.
type Resolver struct {
	year        int
	src         calendar.Source
	exceptions  []Rule
	adjustments []Rule
}

// New returns a Resolver for the given year. A nil source selects the
// canonical Ontario calendar.
func New(year int, src calendar.Source) *Resolver {
	if src == nil {
		src = calendar.NewOntario()
	}
	return &Resolver{
		year:        year,
		src:         src,
		exceptions:  ExceptionRules(),
		adjustments: AdjustmentRules(),
	}
}

// Year returns the resolver's target year.
func (r *Resolver) Year() int { return r.year }

// Source exposes the holiday source the resolver consults.
func (r *Resolver) Source() calendar.Source { return r.src }

// Resolve returns the predicted payment date for a run date.
//
// The legacy tables carry only a day-of-month; Resolve returns the full date
// and leaves that truncation to ResolveDay so callers are never left
// guessing which month a cross-month result landed in.
func (r *Resolver) Resolve(run calendar.Date) calendar.Date {
	eff := run
	for i := 0; i < deferralBound; i++ {
		if rule, ok := r.matchException(eff); ok {
			return rule.Apply(&Context{Run: eff, resolver: r})
		}
		if eff.IsWeekend() {
			eff = eff.PrecedingFriday()
			continue
		}
		if r.src.IsHoliday(eff) {
			eff = r.previousWorkingDay(eff)
			continue
		}
		break
	}

	generic := r.twoWorkingDaysBack(eff)
	for _, rule := range r.adjustments {
		if rule.Matches(eff) {
			return rule.Apply(&Context{Run: eff, Generic: &generic, resolver: r})
		}
	}
	return generic
}

// ResolveDay is the presentation-layer truncation to a day-of-month in
// [1, 31], used only at the legacy table boundary.
func (r *Resolver) ResolveDay(run calendar.Date) int {
	return r.Resolve(run).Day()
}

func (r *Resolver) matchException(d calendar.Date) (Rule, bool) {
	for _, rule := range r.exceptions {
		if rule.Matches(d) {
			return rule, true
		}
	}
	return Rule{}, false
}

// twoWorkingDaysBack walks backward one calendar day at a time, consuming
// only working days, until two have been consumed.
func (r *Resolver) twoWorkingDaysBack(d calendar.Date) calendar.Date {
	consumed := 0
	cur := d
	for consumed < 2 {
		cur = cur.AddDays(-1)
		if !calendar.IsNonWorking(cur, r.src) {
			consumed++
		}
	}
	return cur
}

// previousWorkingDay returns the nearest working day strictly before d.
func (r *Resolver) previousWorkingDay(d calendar.Date) calendar.Date {
	cur := d.AddDays(-1)
	for calendar.IsNonWorking(cur, r.src) {
		cur = cur.AddDays(-1)
	}
	return cur
}

// lastWorkingDayOfDecember returns the nth-from-last working day (1 = last)
// of December of the given year. Used by the January year-boundary rules,
// which must consult the previous year's holiday set.
func (r *Resolver) lastWorkingDayOfDecember(year, nthFromEnd int) calendar.Date {
	cur := calendar.NewDate(year, time.December, 31)
	for {
		if !calendar.IsNonWorking(cur, r.src) {
			nthFromEnd--
			if nthFromEnd == 0 {
				return cur
			}
		}
		cur = cur.AddDays(-1)
	}
}
