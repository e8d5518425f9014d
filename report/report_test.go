package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WSIB-Innovation/payment-schedules/report"
	"github.com/WSIB-Innovation/payment-schedules/schedule"
)

// A fragment in the shape of the published historical files.
const fixture = `Table - 109 - 2024

March - 2024


 RUN   WKEND/HLDY     RUN  WKEND/HLDY        RUN  WKEND/HLDY
 DAY   FROM TO        DAY  FROM  TO          DAY  FROM TO
  01 : 28   28       02 : 28   28       03 : 28   28
  04 : 29   29       05 : 01   01       06 : 04   04

`

func TestParse_Fixture(t *testing.T) {
	gt, err := report.Parse(strings.NewReader(fixture))
	require.NoError(t, err)

	assert.Equal(t, 6, gt.Count())

	payment, ok := gt.Lookup(2024, time.March, 1)
	require.True(t, ok)
	assert.Equal(t, 28, payment)

	payment, ok = gt.Lookup(2024, time.March, 5)
	require.True(t, ok)
	assert.Equal(t, 1, payment, "cross-month results are stored as bare day numbers")

	_, ok = gt.Lookup(2024, time.March, 7)
	assert.False(t, ok)
}

func TestParse_UnknownMonthName(t *testing.T) {
	_, err := report.Parse(strings.NewReader("Febtember - 2024\n  01 : 28   28\n"))
	assert.Error(t, err)
}

func TestRenderMonth_Layout(t *testing.T) {
	g := schedule.NewGenerator(2024, schedule.Table109, nil)
	out := report.RenderMonth(g.Month(time.February))

	require.Contains(t, out, "February - 2024")
	assert.Contains(t, out, "WKEND/HLDY")

	// February 2024 has 29 days: run day 30 renders as an empty cell, run
	// days past 31 never appear.
	assert.Contains(t, out, "30 :  ")
	assert.NotContains(t, out, "32 :")
}

func TestRenderParseRoundTrip(t *testing.T) {
	// GIVEN: a rendered full-year table 109
	// WHEN:  parsing it back
	// THEN:  every (run day -> payment day) entry survives
	g := schedule.NewGenerator(2024, schedule.Table109, nil)
	months := g.FullYear()
	text := report.RenderYear(schedule.Table109, 2024, months)

	gt, err := report.Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, 366, gt.Count(), "2024 is a leap year")

	for _, m := range months {
		for _, e := range m.Entries {
			payment, ok := gt.Lookup(2024, m.Month, e.RunDay)
			require.True(t, ok, "%s run day %d missing", m.Month, e.RunDay)
			assert.Equal(t, e.Payment.Day(), payment, "%s run day %d", m.Month, e.RunDay)
		}
	}
}
