/*
Package eval measures resolver accuracy against historical ground truth.

PURPOSE:
  The exception table is curated by hand from discrepancies between the
  resolver and the historically observed payment tables. This package is the
  measuring instrument: it replays every parsed ground-truth entry through
  the resolver and buckets the day-number differences. A miss here is a
  modeling finding for whoever curates the rule table, never a runtime
  error of the resolver.

COMPARISON:
  The legacy tables carry only a day-of-month, so comparison is on day
  numbers. Cross-month disagreements therefore show up as large (~30 day)
  differences and land in the Major bucket - that is the defect class the
  cross-month exception rules exist to eliminate.

BUCKETS:
  Exact      diff == 0
  WithinOne  diff == 1
  WithinTwo  diff == 2
  Major      diff > 5 (recorded individually as Misses)
*/
package eval

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
	"github.com/WSIB-Innovation/payment-schedules/report"
	"github.com/WSIB-Innovation/payment-schedules/schedule"
)

// majorThreshold separates ordinary near-misses from structural errors.
const majorThreshold = 5

// Period classifies run dates into the calendar regions the rule table
// targets, so accuracy can be tracked per region.
type Period string

const (
	PeriodJanuaryBoundary Period = "january_1_3"
	PeriodChristmas       Period = "christmas"
	PeriodEaster          Period = "easter"
	PeriodRegular         Period = "regular"
)

// Classify returns the period bucket for a run date.
func Classify(month time.Month, day int) Period {
	switch {
	case month == time.January && day <= 3:
		return PeriodJanuaryBoundary
	case month == time.December && day >= 23:
		return PeriodChristmas
	case month == time.April && day >= 10 && day <= 18:
		return PeriodEaster
	default:
		return PeriodRegular
	}
}

// Miss is one major disagreement with ground truth.
type Miss struct {
	Run       calendar.Date
	Predicted int
	Actual    int
	Diff      int
}

// PeriodStats accumulates per-period accuracy.
type PeriodStats struct {
	Total int
	Exact int
}

// Result summarizes one evaluation run.
type Result struct {
	Table     schedule.TableCode
	Total     int
	Exact     int
	WithinOne int
	WithinTwo int
	Major     int

	ByPeriod map[Period]*PeriodStats
	Misses   []Miss

	// Distribution of absolute day-number differences.
	MeanAbsDiff   float64
	StdDevAbsDiff float64
}

// Accuracy returns the exact-match rate as a percentage.
func (r *Result) Accuracy() decimal.Decimal {
	return r.rate(r.Exact)
}

// Practical returns the rate of predictions within one day.
func (r *Result) Practical() decimal.Decimal {
	return r.rate(r.Exact + r.WithinOne)
}

// Acceptable returns the rate of predictions within two days.
func (r *Result) Acceptable() decimal.Decimal {
	return r.rate(r.Exact + r.WithinOne + r.WithinTwo)
}

func (r *Result) rate(hits int) decimal.Decimal {
	if r.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(hits)).
		Div(decimal.NewFromInt(int64(r.Total))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// Run replays every ground-truth entry through a resolver for the entry's
// year and buckets the differences. A nil source selects the canonical
// Ontario calendar; resolvers are cached per year.
func Run(table schedule.TableCode, gt report.GroundTruth, src calendar.Source) *Result {
	if src == nil {
		src = calendar.NewOntario()
	}
	resolvers := make(map[int]*schedule.Resolver)
	resolverFor := func(year int) *schedule.Resolver {
		if r, ok := resolvers[year]; ok {
			return r
		}
		r := schedule.New(year, src)
		resolvers[year] = r
		return r
	}

	result := &Result{
		Table:    table,
		ByPeriod: make(map[Period]*PeriodStats),
	}
	var diffs []float64

	for key, entries := range gt {
		r := resolverFor(key.Year)
		for runDay, actual := range entries {
			run := calendar.NewDate(key.Year, key.Month, runDay)
			predicted := r.ResolveTable(table, run).Day()

			diff := predicted - actual
			if diff < 0 {
				diff = -diff
			}

			result.Total++
			diffs = append(diffs, float64(diff))

			period := Classify(key.Month, runDay)
			stats, ok := result.ByPeriod[period]
			if !ok {
				stats = &PeriodStats{}
				result.ByPeriod[period] = stats
			}
			stats.Total++

			switch {
			case diff == 0:
				result.Exact++
				stats.Exact++
			case diff == 1:
				result.WithinOne++
			case diff == 2:
				result.WithinTwo++
			case diff > majorThreshold:
				result.Major++
				result.Misses = append(result.Misses, Miss{
					Run:       run,
					Predicted: predicted,
					Actual:    actual,
					Diff:      diff,
				})
			}
		}
	}

	if len(diffs) > 0 {
		result.MeanAbsDiff = stat.Mean(diffs, nil)
	}
	if len(diffs) > 1 {
		result.StdDevAbsDiff = stat.StdDev(diffs, nil)
	}
	sort.Slice(result.Misses, func(i, j int) bool {
		return result.Misses[i].Run.Before(result.Misses[j].Run)
	})
	return result
}
