/*
Package report reads and writes the legacy fixed-width payment table format.

PURPOSE:
  The published tables 109/107 circulate as fixed-width text: a
  "<MonthName> - <Year>" header per month, then rows of three run-day cells,
  each "  DD : PP   PP" (run day, then the payment day printed twice for the
  historical FROM/TO columns). This package renders generated schedules into
  that layout and parses historical files back into (year, month, run day) ->
  payment day maps for the evaluation harness and tests.

  The format is stable legacy surface, not part of the resolver contract; the
  resolver itself never touches it.

LAYOUT (verbatim from the published tables):

  January - 2024

   RUN   WKEND/HLDY     RUN  WKEND/HLDY        RUN  WKEND/HLDY
   DAY   FROM TO        DAY  FROM  TO          DAY  FROM TO

    01 : 29   29       02 : 29   29       03 : 29   29
    ...
*/
package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/WSIB-Innovation/payment-schedules/schedule"
)

// MonthKey identifies one month of a parsed table.
type MonthKey struct {
	Year  int
	Month time.Month
}

// GroundTruth maps each month to its run day -> payment day entries.
type GroundTruth map[MonthKey]map[int]int

// Lookup returns the payment day for a run date, if present.
func (gt GroundTruth) Lookup(year int, month time.Month, day int) (int, bool) {
	entries, ok := gt[MonthKey{Year: year, Month: month}]
	if !ok {
		return 0, false
	}
	payment, ok := entries[day]
	return payment, ok
}

// Count returns the total number of parsed entries.
func (gt GroundTruth) Count() int {
	n := 0
	for _, entries := range gt {
		n += len(entries)
	}
	return n
}

// =============================================================================
// RENDERING
// =============================================================================

const (
	blankLine   = "                                                              "
	headerLine1 = " RUN   WKEND/HLDY     RUN  WKEND/HLDY        RUN  WKEND/HLDY  "
	headerLine2 = " DAY   FROM TO        DAY  FROM  TO          DAY  FROM TO     "
	cellGap     = "     "
)

// RenderYear renders a full year's schedule, one month block per month,
// preceded by the table banner.
func RenderYear(table schedule.TableCode, year int, months []schedule.MonthSchedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table - %s - %d\n", table, year)
	for _, m := range months {
		b.WriteString(RenderMonth(m))
	}
	return b.String()
}

// RenderMonth renders a single month block in the legacy layout: three run
// days per row, padded cells for run days past the end of the month.
func RenderMonth(m MonthSchedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s - %d\n\n", m.Month.String(), m.Year)
	b.WriteString(blankLine + "\n")
	b.WriteString(headerLine1 + "\n")
	b.WriteString(headerLine2 + "\n")

	byRunDay := make(map[int]int, len(m.Entries))
	for _, e := range m.Entries {
		byRunDay[e.RunDay] = e.Payment.Day()
	}

	for group := 0; group < 31; group += 3 {
		cells := make([]string, 0, 3)
		for offset := 0; offset < 3; offset++ {
			day := group + offset + 1
			switch {
			case day <= len(m.Entries):
				payment := byRunDay[day]
				cells = append(cells, fmt.Sprintf("  %02d : %02d   %02d", day, payment, payment))
			case day <= 31:
				cells = append(cells, fmt.Sprintf("  %02d :             ", day))
			default:
				cells = append(cells, strings.Repeat(" ", 16))
			}
		}
		b.WriteString(strings.Join(cells, cellGap) + "\n")
	}
	b.WriteString(blankLine + "\n")
	return b.String()
}

// MonthSchedule is re-exported for rendering call sites.
type MonthSchedule = schedule.MonthSchedule

// =============================================================================
// PARSING
// =============================================================================

var (
	monthHeaderRe = regexp.MustCompile(`^\s*([A-Z][a-z]+) - (\d{4})\s*$`)
	cellRe        = regexp.MustCompile(`(\d{2}) : (\d{2})\s+\d{2}`)
)

var monthsByName = map[string]time.Month{
	"January": time.January, "February": time.February, "March": time.March,
	"April": time.April, "May": time.May, "June": time.June,
	"July": time.July, "August": time.August, "September": time.September,
	"October": time.October, "November": time.November, "December": time.December,
}

// Parse reads a legacy table file into a GroundTruth map. Lines before the
// first month header (banners, column headings) are skipped; unknown month
// names fail loudly since they indicate a corrupted file.
func Parse(r io.Reader) (GroundTruth, error) {
	gt := make(GroundTruth)
	var current *MonthKey

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		if m := monthHeaderRe.FindStringSubmatch(text); m != nil {
			month, ok := monthsByName[m[1]]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown month name %q", line, m[1])
			}
			year, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad year %q: %w", line, m[2], err)
			}
			key := MonthKey{Year: year, Month: month}
			if _, exists := gt[key]; !exists {
				gt[key] = make(map[int]int)
			}
			current = &key
			continue
		}

		if current == nil {
			continue
		}
		for _, cell := range cellRe.FindAllStringSubmatch(text, -1) {
			runDay, _ := strconv.Atoi(cell[1])
			payment, _ := strconv.Atoi(cell[2])
			gt[*current][runDay] = payment
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	return gt, nil
}
