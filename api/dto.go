/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

DATES:
  All dates cross the wire as YYYY-MM-DD strings. Payment results carry both
  the full date and the bare day-of-month: the day number is what the legacy
  tables print, the full date is what disambiguates cross-month results.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - report/report.go: Legacy text format behind the /legacy endpoints
*/
package api

import (
	"sort"
	"time"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
	"github.com/WSIB-Innovation/payment-schedules/eval"
	"github.com/WSIB-Innovation/payment-schedules/schedule"
	"github.com/WSIB-Innovation/payment-schedules/store/sqlite"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolveResponse is the result of resolving one run date.
type ResolveResponse struct {
	Table      string `json:"table"`
	RunDate    string `json:"run_date"`
	Payment    string `json:"payment_date"`
	PaymentDay int    `json:"payment_day"`
}

// =============================================================================
// SCHEDULES
// =============================================================================

// EntryDTO is one run-day row of a month schedule.
type EntryDTO struct {
	RunDay     int    `json:"run_day"`
	Payment    string `json:"payment_date"`
	PaymentDay int    `json:"payment_day"`
}

// MonthScheduleDTO is one generated month.
type MonthScheduleDTO struct {
	Year    int        `json:"year"`
	Month   int        `json:"month"`
	Table   string     `json:"table"`
	Entries []EntryDTO `json:"entries"`
}

func toMonthScheduleDTO(m schedule.MonthSchedule) MonthScheduleDTO {
	entries := make([]EntryDTO, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, EntryDTO{
			RunDay:     e.RunDay,
			Payment:    e.Payment.String(),
			PaymentDay: e.Payment.Day(),
		})
	}
	return MonthScheduleDTO{
		Year:    m.Year,
		Month:   int(m.Month),
		Table:   string(m.Table),
		Entries: entries,
	}
}

func toMonthScheduleDTOs(months []schedule.MonthSchedule) []MonthScheduleDTO {
	dtos := make([]MonthScheduleDTO, 0, len(months))
	for _, m := range months {
		dtos = append(dtos, toMonthScheduleDTO(m))
	}
	return dtos
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO is one calendar holiday, statutory or overridden.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func toHolidayDTOs(set calendar.Set) []HolidayDTO {
	dtos := make([]HolidayDTO, 0, len(set))
	for _, h := range set {
		dtos = append(dtos, HolidayDTO{Date: h.Date.String(), Name: h.Name})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Date < dtos[j].Date })
	return dtos
}

// OverrideDTO is one stored closure override.
type OverrideDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// CreateOverrideRequest is the request to add a closure override.
type CreateOverrideRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// EVALUATIONS
// =============================================================================

// RunEvaluationRequest carries a legacy-format ground-truth table to compare
// the resolver against.
type RunEvaluationRequest struct {
	Table       string `json:"table"`
	GroundTruth string `json:"ground_truth"`
}

// PeriodStatsDTO is per-period accuracy in an evaluation response.
type PeriodStatsDTO struct {
	Period string `json:"period"`
	Total  int    `json:"total"`
	Exact  int    `json:"exact"`
}

// MissDTO is one major disagreement with ground truth.
type MissDTO struct {
	RunDate   string `json:"run_date"`
	Predicted int    `json:"predicted"`
	Actual    int    `json:"actual"`
	Diff      int    `json:"diff"`
}

// EvaluationResultDTO is the full outcome of one evaluation run.
type EvaluationResultDTO struct {
	ID          string           `json:"id"`
	Table       string           `json:"table"`
	Total       int              `json:"total"`
	Exact       int              `json:"exact"`
	WithinOne   int              `json:"within_one"`
	WithinTwo   int              `json:"within_two"`
	Major       int              `json:"major"`
	Accuracy    string           `json:"accuracy_pct"`
	Practical   string           `json:"practical_pct"`
	Acceptable  string           `json:"acceptable_pct"`
	MeanAbsDiff float64          `json:"mean_abs_diff"`
	ByPeriod    []PeriodStatsDTO `json:"by_period"`
	Misses      []MissDTO        `json:"misses"`
}

func toEvaluationResultDTO(id string, r *eval.Result) EvaluationResultDTO {
	dto := EvaluationResultDTO{
		ID:          id,
		Table:       string(r.Table),
		Total:       r.Total,
		Exact:       r.Exact,
		WithinOne:   r.WithinOne,
		WithinTwo:   r.WithinTwo,
		Major:       r.Major,
		Accuracy:    r.Accuracy().String(),
		Practical:   r.Practical().String(),
		Acceptable:  r.Acceptable().String(),
		MeanAbsDiff: r.MeanAbsDiff,
		ByPeriod:    make([]PeriodStatsDTO, 0, len(r.ByPeriod)),
		Misses:      make([]MissDTO, 0, len(r.Misses)),
	}
	for period, stats := range r.ByPeriod {
		dto.ByPeriod = append(dto.ByPeriod, PeriodStatsDTO{
			Period: string(period),
			Total:  stats.Total,
			Exact:  stats.Exact,
		})
	}
	sort.Slice(dto.ByPeriod, func(i, j int) bool { return dto.ByPeriod[i].Period < dto.ByPeriod[j].Period })
	for _, miss := range r.Misses {
		dto.Misses = append(dto.Misses, MissDTO{
			RunDate:   miss.Run.String(),
			Predicted: miss.Predicted,
			Actual:    miss.Actual,
			Diff:      miss.Diff,
		})
	}
	return dto
}

// EvaluationRecordDTO is one stored evaluation summary.
type EvaluationRecordDTO struct {
	ID          string  `json:"id"`
	Table       string  `json:"table"`
	Total       int     `json:"total"`
	Exact       int     `json:"exact"`
	WithinOne   int     `json:"within_one"`
	WithinTwo   int     `json:"within_two"`
	Major       int     `json:"major"`
	Accuracy    string  `json:"accuracy_pct"`
	MeanAbsDiff float64 `json:"mean_abs_diff"`
	CreatedAt   string  `json:"created_at"`
}

func toEvaluationRecordDTO(rec sqlite.EvaluationRecord) EvaluationRecordDTO {
	return EvaluationRecordDTO{
		ID:          rec.ID,
		Table:       string(rec.Table),
		Total:       rec.Total,
		Exact:       rec.Exact,
		WithinOne:   rec.WithinOne,
		WithinTwo:   rec.WithinTwo,
		Major:       rec.Major,
		Accuracy:    rec.Accuracy.String(),
		MeanAbsDiff: rec.MeanAbsDiff,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
