/*
source.go - Injected holiday lookup capability

PURPOSE:
  Holiday lookup is a capability the resolver consumes, not something it owns.
  Earlier revisions of this system drifted between a jurisdictional calendar
  library and hand-rolled calculations; keeping one Source interface with a
  single canonical implementation (Ontario, ontario.go) eliminates that drift.
  The library-backed Business source (business.go) and the store-backed
  Overlay exist as alternatives behind the same interface.

KEY CONCEPTS:
  - Set: immutable per-year set of statutory holiday dates
  - Source: HolidaysFor(year) + IsHoliday(date)
  - Overlay: base source plus manually added dates (org-specific calendar)

YEAR BOUNDARIES:
  IsHoliday consults the set for the date's own year, not the year a resolver
  happens to be bound to. Early-January resolution depends on the previous
  December's holidays, so a Source must answer for any year on demand.

SEE ALSO:
  - ontario.go: canonical computed calendar
  - business.go: rickar/cal-backed calendar with manual overlay
  - schedule/resolver.go: the consumer
*/
package calendar

// Holiday is a named statutory holiday occurrence.
type Holiday struct {
	Date Date
	Name string
}

// Set holds the holidays of a single year. Construct once, read-only after.
type Set map[Date]Holiday

func (s Set) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// Dates returns the member dates in unspecified order.
func (s Set) Dates() []Date {
	out := make([]Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	return out
}

// Source provides per-year statutory holiday sets.
type Source interface {
	// HolidaysFor returns the holiday set for a year. Never fails for a
	// positive year; sets are cached and must not be mutated by callers.
	HolidaysFor(year int) Set

	// IsHoliday reports whether a date is a holiday, using the set for the
	// date's own year.
	IsHoliday(d Date) bool
}

// IsNonWorking reports whether a date is a weekend day or a holiday
// according to the given source.
func IsNonWorking(d Date, src Source) bool {
	return d.IsWeekend() || src.IsHoliday(d)
}

// =============================================================================
// OVERLAY - base source plus manual additions
// =============================================================================

// Overlay layers extra holidays on top of a base source. Used for ad-hoc
// org-specific closure days persisted in the store.
type Overlay struct {
	Base  Source
	Extra []Holiday
}

func (o *Overlay) HolidaysFor(year int) Set {
	base := o.Base.HolidaysFor(year)
	set := make(Set, len(base)+len(o.Extra))
	for d, h := range base {
		set[d] = h
	}
	for _, h := range o.Extra {
		if h.Date.Year() == year {
			set[h.Date] = h
		}
	}
	return set
}

func (o *Overlay) IsHoliday(d Date) bool {
	return o.HolidaysFor(d.Year()).Contains(d)
}
