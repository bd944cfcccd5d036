// Package calendar implements the week-of-semester computation described in
// spec.md §4.6, grounded on original_source/domain_schedule/src/time.rs
// (NaiveDateExt::week_of_semester) with the numeric boundaries spec.md
// documents taking precedence wherever the two disagree.
package calendar

import "time"

// MaxWeekOfSemester is the highest 1-based week number a semester can
// report; anything beyond it (or below 1) is non-studying.
const MaxWeekOfSemester = 18

// NonStudying is the sentinel week-of-semester value for weeks outside any
// semester (spec.md §3: "week_of_semester (int8; −1 means non-studying)").
const NonStudying int8 = -1

// Semester is the closed set of semesters a shift override can target.
type Semester int

const (
	Spring Semester = iota
	Fall
)

func (s Semester) String() string {
	if s == Spring {
		return "spring"
	}
	return "fall"
}

// ShiftRule overrides the reference point (and optionally the starting
// week number) used to compute week-of-semester for one (year, semester)
// pair. FirstDay.Year() must equal the owning year (spec.md §9's
// year-equality invariant, preserved strictly — see DESIGN.md).
type ShiftRule struct {
	FirstDay   time.Time
	WeekNumber *int8
}

// ShiftProvider resolves an override for a given (year, semester), e.g.
// *calendar.ShiftRepository.
type ShiftProvider interface {
	Get(year int, semester Semester) (ShiftRule, bool)
}

// Engine computes week-of-semester, optionally consulting a ShiftProvider
// for manual overrides. A nil Shift falls back to the built-in defaults
// for every year.
type Engine struct {
	Shift ShiftProvider
}

// NewEngine builds an Engine backed by the given override provider. Shift
// may be nil to use only the built-in defaults.
func NewEngine(shift ShiftProvider) *Engine {
	return &Engine{Shift: shift}
}

// WeekOfSemester returns the 1-based week-of-semester for the week
// beginning at weekStart (which must be a Monday), or NonStudying.
func (e *Engine) WeekOfSemester(weekStart time.Time) int8 {
	month := weekStart.Month()
	if month == time.July || month == time.August {
		return NonStudying
	}

	year := weekStart.Year()
	var semester Semester
	if month >= time.February && month <= time.June {
		semester = Spring
	} else {
		semester = Fall
	}

	refWeek, startNumber := e.reference(year, semester)
	_, curWeek := weekStart.ISOWeek()

	result := curWeek - refWeek + startNumber
	if result < 1 || result > MaxWeekOfSemester {
		return NonStudying
	}
	return int8(result)
}

// reference returns the ISO week of the semester's reference point and the
// week number assigned to that reference week.
func (e *Engine) reference(year int, semester Semester) (refWeek, startNumber int) {
	if e.Shift != nil {
		if rule, ok := e.Shift.Get(year, semester); ok {
			_, refWeek = rule.FirstDay.ISOWeek()
			startNumber = 1
			if rule.WeekNumber != nil {
				startNumber = int(*rule.WeekNumber)
			}
			return refWeek, startNumber
		}
	}

	if semester == Spring {
		return defaultSpringReferenceWeek(year), 1
	}
	return defaultFallReferenceWeek(year), 1
}

// defaultFallReferenceWeek: September 1 of year, bumped to September 2 if
// September 1 falls on a Sunday (spec.md §4.6).
func defaultFallReferenceWeek(year int) int {
	sep1 := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	if sep1.Weekday() == time.Sunday {
		sep1 = sep1.AddDate(0, 0, 1)
	}
	_, week := sep1.ISOWeek()
	return week
}

// defaultSpringReferenceWeek: the first Monday on/after February 1 of year
// (spec.md §4.6).
func defaultSpringReferenceWeek(year int) int {
	feb1 := time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC)
	for feb1.Weekday() != time.Monday {
		feb1 = feb1.AddDate(0, 0, 1)
	}
	_, week := feb1.ISOWeek()
	return week
}

// MondayOf returns the Monday of the ISO week containing t.
func MondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(t.Weekday())
	if offset == 0 { // Sunday
		offset = 7
	}
	return t.AddDate(0, 0, -(offset - 1))
}

// IsPastWeek reports whether a week beginning at weekStart ended strictly
// before "now" (spec.md §9, mirrors is_past_week in original_source).
func IsPastWeek(weekStart, now time.Time) bool {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekEnd.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
}
