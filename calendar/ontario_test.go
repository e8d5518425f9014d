package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
)

func date(y int, m time.Month, d int) calendar.Date { return calendar.NewDate(y, m, d) }

func TestEaster_PublishedDates(t *testing.T) {
	// Published Easter Sunday dates for the Gregorian calendar.
	cases := map[int]calendar.Date{
		2000: date(2000, time.April, 23),
		2021: date(2021, time.April, 4),
		2024: date(2024, time.March, 31),
		2025: date(2025, time.April, 20),
	}
	for year, want := range cases {
		assert.True(t, calendar.Easter(year).Equal(want), "Easter %d: got %s, want %s", year, calendar.Easter(year), want)
	}

	// Good Friday / Easter Monday are fixed offsets from Easter Sunday.
	assert.True(t, calendar.GoodFriday(2024).Equal(date(2024, time.March, 29)))
	assert.True(t, calendar.EasterMonday(2024).Equal(date(2024, time.April, 1)))
}

func TestOntario_PublishedHolidays2024(t *testing.T) {
	src := calendar.NewOntario()
	set := src.HolidaysFor(2024)

	expected := []calendar.Date{
		date(2024, time.January, 1),    // New Year's Day
		date(2024, time.February, 19),  // Family Day
		date(2024, time.March, 29),     // Good Friday
		date(2024, time.April, 1),      // Easter Monday
		date(2024, time.May, 20),       // Victoria Day
		date(2024, time.July, 1),       // Canada Day (Monday, no shift)
		date(2024, time.August, 5),     // Civic Holiday
		date(2024, time.September, 2),  // Labour Day
		date(2024, time.September, 30), // Truth and Reconciliation
		date(2024, time.October, 14),   // Thanksgiving
		date(2024, time.November, 11),  // Remembrance Day
		date(2024, time.December, 25),  // Christmas Day
		date(2024, time.December, 26),  // Boxing Day
	}
	for _, d := range expected {
		assert.True(t, set.Contains(d), "expected %s in 2024 holiday set", d)
	}
}

func TestOntario_VictoriaDay(t *testing.T) {
	// Monday strictly before May 25, checked against published dates.
	cases := map[int]calendar.Date{
		2021: date(2021, time.May, 24),
		2022: date(2022, time.May, 23),
		2023: date(2023, time.May, 22),
		2024: date(2024, time.May, 20),
		2025: date(2025, time.May, 19),
	}
	src := calendar.NewOntario()
	for year, want := range cases {
		require.True(t, src.HolidaysFor(year).Contains(want), "Victoria Day %d should be %s", year, want)
		assert.Equal(t, time.Monday, want.Weekday())
	}
}

func TestOntario_CanadaDayObservedShift(t *testing.T) {
	src := calendar.NewOntario()

	// July 1, 2018 was a Sunday: observed on July 2.
	require.Equal(t, time.Sunday, date(2018, time.July, 1).Weekday())
	set := src.HolidaysFor(2018)
	assert.False(t, set.Contains(date(2018, time.July, 1)))
	assert.True(t, set.Contains(date(2018, time.July, 2)))

	// July 1, 2024 was a Monday: no shift.
	assert.True(t, src.HolidaysFor(2024).Contains(date(2024, time.July, 1)))
}

func TestOntario_TruthAndReconciliationStartYear(t *testing.T) {
	src := calendar.NewOntario()
	assert.True(t, src.HolidaysFor(2021).Contains(date(2021, time.September, 30)))
	assert.False(t, src.HolidaysFor(2020).Contains(date(2020, time.September, 30)))
}

func TestOntario_IdempotentSets(t *testing.T) {
	src := calendar.NewOntario()
	first := src.HolidaysFor(2025)
	second := src.HolidaysFor(2025)

	require.Equal(t, len(first), len(second))
	for d := range first {
		assert.True(t, second.Contains(d))
	}
}

func TestOntario_IsHolidayUsesDateYear(t *testing.T) {
	// A resolver bound to 2022 still needs correct answers for late 2021.
	src := calendar.NewOntario()
	assert.True(t, src.IsHoliday(date(2021, time.December, 25)))
	assert.True(t, src.IsHoliday(date(2021, time.December, 26)))
	assert.False(t, src.IsHoliday(date(2021, time.December, 24)))
}

func TestIsNonWorking(t *testing.T) {
	src := calendar.NewOntario()

	assert.True(t, calendar.IsNonWorking(date(2024, time.March, 2), src), "Saturday")
	assert.True(t, calendar.IsNonWorking(date(2024, time.December, 25), src), "Christmas")
	assert.False(t, calendar.IsNonWorking(date(2024, time.March, 1), src), "plain Friday")
}

func TestOverlay_AddsExtraDates(t *testing.T) {
	closure := calendar.Holiday{Date: date(2024, time.December, 27), Name: "Office Closure"}
	src := &calendar.Overlay{Base: calendar.NewOntario(), Extra: []calendar.Holiday{closure}}

	assert.True(t, src.IsHoliday(date(2024, time.December, 27)))
	assert.True(t, src.IsHoliday(date(2024, time.December, 25)), "base holidays still visible")
	assert.False(t, src.IsHoliday(date(2023, time.December, 27)), "overlay entries are year-specific")
}
