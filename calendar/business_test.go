package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
)

// The library-backed source is only checked on dates where the national
// definitions and the internal calendar agree; observance shifting is where
// the two drift, and the canonical Ontario source wins there.

func TestBusiness_CoreHolidays2024(t *testing.T) {
	src := calendar.NewBusiness()

	assert.True(t, src.IsHoliday(date(2024, time.December, 25)), "Christmas (Wednesday)")
	assert.True(t, src.IsHoliday(date(2024, time.July, 1)), "Canada Day (Monday)")
	assert.True(t, src.IsHoliday(date(2024, time.September, 2)), "Labour Day")
	assert.True(t, src.IsHoliday(date(2024, time.March, 29)), "Good Friday")
	assert.False(t, src.IsHoliday(date(2024, time.March, 15)), "plain Friday")
}

func TestBusiness_OverlayHolidays(t *testing.T) {
	src := calendar.NewBusiness()

	assert.True(t, src.IsHoliday(date(2024, time.September, 30)), "Truth and Reconciliation from overlay")
	assert.True(t, src.IsHoliday(date(2024, time.April, 1)), "Easter Monday from overlay")
}

func TestBusiness_CachedSetsAreStable(t *testing.T) {
	src := calendar.NewBusiness()
	first := src.HolidaysFor(2024)
	second := src.HolidaysFor(2024)
	assert.Equal(t, len(first), len(second))
}
