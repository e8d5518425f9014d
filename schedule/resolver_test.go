/*
resolver_test.go - Specification tests for payment date resolution

PURPOSE:
  Executable specification of the resolver contract: base rule, deferral,
  year-boundary behavior and the locked ground-truth scenarios. Rule-level
  tests for individual exception records live in rules_test.go.
*/
package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
	"github.com/WSIB-Innovation/payment-schedules/schedule"
)

func date(y int, m time.Month, d int) calendar.Date { return calendar.NewDate(y, m, d) }

func resolver(year int) *schedule.Resolver { return schedule.New(year, nil) }

// =============================================================================
// SPEC 1: DETERMINISM AND THE GENERIC RULE
// =============================================================================

func TestResolve_Deterministic(t *testing.T) {
	r := resolver(2024)
	run := date(2024, time.March, 15)

	first := r.Resolve(run)
	for i := 0; i < 10; i++ {
		assert.True(t, r.Resolve(run).Equal(first), "repeated resolution must not drift")
	}
}

func TestResolve_GenericTwoWorkingDaysBack(t *testing.T) {
	// GIVEN: a plain Friday with no weekend, holiday or exception nearby
	// WHEN:  resolving
	// THEN:  the answer is exactly two working days back
	r := resolver(2024)

	got := r.Resolve(date(2024, time.March, 15))
	assert.True(t, got.Equal(date(2024, time.March, 13)), "got %s", got)
}

func TestResolve_GenericWalkSkipsHolidays(t *testing.T) {
	// Thanksgiving 2024 (Mon Oct 14) sits inside the walk from Wed Oct 16:
	// Oct 15 counts, Oct 14/13/12 do not, Oct 11 is the second working day.
	r := resolver(2024)

	got := r.Resolve(date(2024, time.October, 16))
	assert.True(t, got.Equal(date(2024, time.October, 11)), "got %s", got)
}

func TestResolve_CrossMonthResultSurfacedAsIs(t *testing.T) {
	// Tue Oct 1, 2024: the walk crosses Sep 30 (holiday) and the weekend,
	// landing on Thu Sep 26. The previous-month day is returned unchanged;
	// ResolveDay truncates it for the legacy table.
	r := resolver(2024)

	got := r.Resolve(date(2024, time.October, 1))
	require.True(t, got.Equal(date(2024, time.September, 26)), "got %s", got)
	assert.Equal(t, 26, r.ResolveDay(date(2024, time.October, 1)))
}

// =============================================================================
// SPEC 2: WEEKEND AND HOLIDAY DEFERRAL
// =============================================================================

func TestResolve_WeekendBehavesLikeFriday(t *testing.T) {
	// Locked scenario: Sat 2024-03-02 resolves exactly like Fri 2024-03-01.
	r := resolver(2024)

	friday := r.Resolve(date(2024, time.March, 1))
	assert.True(t, r.Resolve(date(2024, time.March, 2)).Equal(friday), "Saturday")
	assert.True(t, r.Resolve(date(2024, time.March, 3)).Equal(friday), "Sunday")
	assert.True(t, friday.Equal(date(2024, time.February, 28)))
}

func TestResolve_HolidayBehavesLikePrecedingWorkingDay(t *testing.T) {
	// Canada Day 2024 falls on a Monday; the nearest preceding working day
	// is Fri Jun 28.
	r := resolver(2024)

	holiday := r.Resolve(date(2024, time.July, 1))
	working := r.Resolve(date(2024, time.June, 28))
	assert.True(t, holiday.Equal(working))
}

func TestResolve_ObservedCanadaDayDefers(t *testing.T) {
	// Jul 1, 2018 was a Sunday, so Jul 2 is the observed holiday and must
	// defer like one rather than resolve as a plain Monday.
	r := resolver(2018)

	observed := r.Resolve(date(2018, time.July, 2))
	working := r.Resolve(date(2018, time.June, 29))
	assert.True(t, observed.Equal(working))
}

// =============================================================================
// SPEC 3: YEAR BOUNDARY
// =============================================================================

func TestResolve_EarlyJanuaryUsesPreviousDecember(t *testing.T) {
	// Locked scenario: 2022-01-02 resolves via the previous year's December
	// working days (Dec 31, 2021 was a Friday; second-to-last is Dec 30).
	r := resolver(2022)

	got := r.Resolve(date(2022, time.January, 2))
	require.True(t, got.Equal(date(2021, time.December, 30)), "got %s", got)
	assert.Equal(t, 30, r.ResolveDay(date(2022, time.January, 2)))
}

func TestResolve_January3UsesLastDecemberWorkingDay(t *testing.T) {
	// Dec 31, 2023 was a Sunday; the last working day was Fri Dec 29.
	r := resolver(2024)

	got := r.Resolve(date(2024, time.January, 3))
	assert.True(t, got.Equal(date(2023, time.December, 29)), "got %s", got)
}

func TestResolve_January1and2ShareTheSecondToLastDecemberDay(t *testing.T) {
	r := resolver(2024)

	// Dec 2023: last working day Fri 29, second-to-last Thu 28.
	want := date(2023, time.December, 28)
	assert.True(t, r.Resolve(date(2024, time.January, 1)).Equal(want))
	assert.True(t, r.Resolve(date(2024, time.January, 2)).Equal(want))
}

// =============================================================================
// SPEC 4: LOCKED DECEMBER AND JULY SCENARIOS
// =============================================================================

func TestResolve_December21OffsetScenario(t *testing.T) {
	// Locked scenario: 2021-12-21 equals the generic result (Fri Dec 17)
	// plus 4, clamped to the last day of December.
	r := resolver(2021)

	got := r.Resolve(date(2021, time.December, 21))
	assert.True(t, got.Equal(date(2021, time.December, 21)), "got %s", got)
}

func TestResolve_July3ForcedToFirstScenario(t *testing.T) {
	// Locked scenario: the generic walk from Mon 2023-07-03 lands on Thu
	// Jun 29; the cross-month override forces July 1.
	r := resolver(2023)

	got := r.Resolve(date(2023, time.July, 3))
	require.True(t, got.Equal(date(2023, time.July, 1)), "got %s", got)
	assert.Equal(t, 1, r.ResolveDay(date(2023, time.July, 3)))
}

// =============================================================================
// SPEC 5: TABLES
// =============================================================================

func TestResolveTable_107IsSevenDaysAfter109(t *testing.T) {
	r := resolver(2024)
	run := date(2024, time.March, 15)

	t109 := r.ResolveTable(schedule.Table109, run)
	t107 := r.ResolveTable(schedule.Table107, run)
	assert.True(t, t107.Equal(t109.AddDays(7)))
}

func TestResolveTable_107LateDecemberOverride(t *testing.T) {
	r := resolver(2024)

	for day := 25; day <= 27; day++ {
		got := r.ResolveTable(schedule.Table107, date(2024, time.December, day))
		assert.True(t, got.Equal(date(2024, time.December, 31)), "Dec %d: got %s", day, got)
	}
}

func TestParseTableCode(t *testing.T) {
	for _, s := range []string{"109", "107"} {
		code, err := schedule.ParseTableCode(s)
		require.NoError(t, err)
		assert.Equal(t, schedule.TableCode(s), code)
	}
	_, err := schedule.ParseTableCode("110")
	assert.Error(t, err)
}

func TestGenerator_MonthEntries(t *testing.T) {
	g := schedule.NewGenerator(2024, schedule.Table109, nil)
	month := g.Month(time.March)

	require.Len(t, month.Entries, 31)
	assert.Equal(t, 1, month.Entries[0].RunDay)

	// Sat Mar 2 behaves like Fri Mar 1.
	assert.True(t, month.Entries[1].Payment.Equal(month.Entries[0].Payment))
}

func TestGenerator_FullYear(t *testing.T) {
	g := schedule.NewGenerator(2024, schedule.Table109, nil)
	months := g.FullYear()

	require.Len(t, months, 12)
	assert.Equal(t, time.February, months[1].Month)
	assert.Len(t, months[1].Entries, 29, "2024 is a leap year")
}

// =============================================================================
// SPEC 6: SOURCE INJECTION
// =============================================================================

func TestResolve_RespectsInjectedOverlay(t *testing.T) {
	// GIVEN: an overlay declaring Thu 2024-03-14 an ad-hoc closure day
	// WHEN:  resolving Fri 2024-03-15
	// THEN:  the walk skips the closure day (Mar 14, Mar 13 -> Mar 12)
	src := &calendar.Overlay{
		Base:  calendar.NewOntario(),
		Extra: []calendar.Holiday{{Date: date(2024, time.March, 14), Name: "Office Closure"}},
	}
	r := schedule.New(2024, src)

	got := r.Resolve(date(2024, time.March, 15))
	assert.True(t, got.Equal(date(2024, time.March, 12)), "got %s", got)
}
