// Package schedule holds the domain value types and mapping logic for one
// week of classes for one schedule owner (group, person or room), grounded
// on original_source/domain_schedule/src/dto/mpeix.rs and
// original_source/domain_schedule/src/schedule/mapping.rs. Numeric and
// regex constants follow spec.md §3 wherever it disagrees with
// original_source (see DESIGN.md's "Open Questions" section).
package schedule

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// Type is the closed set of schedule owners.
type Type int

const (
	Group Type = iota
	Person
	Room
)

// ParseType parses the lowercase URL/wire form of a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "group":
		return Group, nil
	case "person":
		return Person, nil
	case "room":
		return Room, nil
	default:
		return 0, apperrors.NewUser(fmt.Sprintf("unknown schedule type %q", s))
	}
}

// String returns the lowercased variant name used in URLs, cache keys and
// persisted rows (spec.md §3).
func (t Type) String() string {
	switch t {
	case Group:
		return "group"
	case Person:
		return "person"
	case Room:
		return "room"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the SCREAMING_SNAKE_CASE enum form used by the HTTP
// surface (spec.md §6).
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strings.ToUpper(t.String()) + `"`), nil
}

// UnmarshalJSON accepts the same SCREAMING_SNAKE_CASE (or lowercase) form
// MarshalJSON produces, so a Type round-trips through the persistent
// cache's JSON encoding.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var (
	groupNamePattern    = regexp.MustCompile(`^[A-Za-zА-Яа-я0-9-]{5,20}$`)
	shortGroupNameRegex = regexp.MustCompile(`.*-\d[^0-9]*-.*`)
	personNamePattern   = regexp.MustCompile(`^([А-Яа-я]+[ -]){0,4}[А-Яа-я]+$`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// Name is a validated, normalized schedule owner name.
type Name string

// NewName validates and normalizes a raw name for the given type
// (spec.md §3). Group names are uppercased, with a leading zero inserted
// after the first hyphen when the segment between the first and second
// hyphen is a single digit. Person names are stored verbatim once
// validated. Room names are not supported — validation always fails with
// a user error.
func NewName(raw string, t Type) (Name, error) {
	switch t {
	case Group:
		if !groupNamePattern.MatchString(raw) {
			return "", apperrors.NewUser("invalid group name")
		}
		upper := strings.ToUpper(raw)
		if shortGroupNameRegex.MatchString(upper) {
			upper = strings.Replace(upper, "-", "-0", 1)
		}
		return Name(upper), nil
	case Person:
		if !personNamePattern.MatchString(raw) {
			return "", apperrors.NewUser("invalid person name")
		}
		return Name(raw), nil
	case Room:
		return "", apperrors.NewUser("room name validation is not implemented yet")
	default:
		return "", apperrors.NewUser("unknown schedule type")
	}
}

func (n Name) String() string { return string(n) }

// SearchQuery is a validated, normalized free-text search query.
type SearchQuery string

// NewSearchQuery trims the query, collapses internal whitespace runs, and
// enforces the [2, 50]-character length invariant (spec.md §3/§4.8).
func NewSearchQuery(raw string) (SearchQuery, error) {
	trimmed := whitespaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")
	n := len([]rune(trimmed))
	if n < 2 {
		return "", apperrors.NewUser("search query must be at least 2 characters")
	}
	if n > 50 {
		return "", apperrors.NewUser("search query must be at most 50 characters")
	}
	return SearchQuery(trimmed), nil
}

func (q SearchQuery) String() string { return string(q) }

// ClassesType is the closed set of class kinds classified from the
// upstream's free-text "kind of work" field.
type ClassesType int

const (
	Undefined ClassesType = iota
	Lecture
	Lab
	Practice
	Course
	Exam
	Consultation
)

func (t ClassesType) String() string {
	switch t {
	case Lecture:
		return "LECTURE"
	case Lab:
		return "LAB"
	case Practice:
		return "PRACTICE"
	case Course:
		return "COURSE"
	case Exam:
		return "EXAM"
	case Consultation:
		return "CONSULTATION"
	default:
		return "UNDEFINED"
	}
}

func (t ClassesType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the SCREAMING_SNAKE_CASE form MarshalJSON produces,
// so a ClassesType round-trips through the persistent cache's JSON
// encoding. An unrecognized value decodes to Undefined rather than erroring,
// matching classifyType's own fallback.
func (t *ClassesType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToUpper(s) {
	case "LECTURE":
		*t = Lecture
	case "LAB":
		*t = Lab
	case "PRACTICE":
		*t = Practice
	case "COURSE":
		*t = Course
	case "EXAM":
		*t = Exam
	case "CONSULTATION":
		*t = Consultation
	default:
		*t = Undefined
	}
	return nil
}

// classifyType maps a raw "kind of work" string to a ClassesType by
// case-insensitive substring match; order matters, first match wins
// (spec.md §3).
func classifyType(rawType string) ClassesType {
	lower := strings.ToLower(rawType)
	switch {
	case strings.Contains(lower, "лек"):
		return Lecture
	case strings.Contains(lower, "лаб"):
		return Lab
	case strings.Contains(lower, "прак"):
		return Practice
	case strings.Contains(lower, "курс"), strings.Contains(lower, "кп"):
		return Course
	case strings.Contains(lower, "экз"):
		return Exam
	case strings.Contains(lower, "консул"):
		return Consultation
	default:
		return Undefined
	}
}

// ClassesTime is a pair of wall-clock times with no attached date.
type ClassesTime struct {
	Start time.Time
	End   time.Time
}

// classesTimeWire is ClassesTime's wire shape: time{start:"HH:MM:SS",
// end:"HH:MM:SS"} (spec.md §6).
type classesTimeWire struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (t ClassesTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(classesTimeWire{
		Start: t.Start.Format("15:04:05"),
		End:   t.End.Format("15:04:05"),
	})
}

func (t *ClassesTime) UnmarshalJSON(data []byte) error {
	var wire classesTimeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	start, err := time.Parse("15:04:05", wire.Start)
	if err != nil {
		return apperrors.NewInternal("parse classes time start", err)
	}
	end, err := time.Parse("15:04:05", wire.End)
	if err != nil {
		return apperrors.NewInternal("parse classes time end", err)
	}
	t.Start, t.End = start, end
	return nil
}

// classNumberByStart maps the seven canonical lesson start times to their
// 1-based lesson number (spec.md §3); times not in this table yield -1.
var classNumberByStart = map[string]int8{
	"09:20": 1,
	"11:10": 2,
	"13:45": 3,
	"15:35": 4,
	"17:20": 5,
	"18:55": 6,
	"20:30": 7,
}

func numberFromStart(start time.Time) int8 {
	if n, ok := classNumberByStart[start.Format("15:04")]; ok {
		return n
	}
	return -1
}

// Classes is a single lesson within a Day.
type Classes struct {
	Name    string      `json:"name"`
	Type    ClassesType `json:"type"`
	RawType string      `json:"rawType"`
	Place   string      `json:"place"`
	Groups  string      `json:"groups"`
	Person  string      `json:"person"`
	Time    ClassesTime `json:"time"`
	Number  int8        `json:"number"`
}

// Day is one calendar day of a Week.
type Day struct {
	DayOfWeek uint8 // 1=Monday .. 7=Sunday
	Date      time.Time
	Classes   []Classes
}

// dayWire is Day's wire shape, rendering Date as a bare YYYY-MM-DD string
// (spec.md §6) instead of encoding/json's default RFC3339 timestamp.
type dayWire struct {
	DayOfWeek uint8     `json:"dayOfWeek"`
	Date      string    `json:"date"`
	Classes   []Classes `json:"classes"`
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(dayWire{
		DayOfWeek: d.DayOfWeek,
		Date:      d.Date.Format("2006-01-02"),
		Classes:   d.Classes,
	})
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var wire dayWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", wire.Date)
	if err != nil {
		return apperrors.NewInternal("parse day date", err)
	}
	d.DayOfWeek = wire.DayOfWeek
	d.Date = date
	d.Classes = wire.Classes
	return nil
}

// Week is one week of a Schedule. WeekOfSemester is calendar.NonStudying
// (-1) outside any semester.
type Week struct {
	WeekOfYear     uint8
	WeekOfSemester int8
	FirstDayOfWeek time.Time
	Days           []Day
}

// weekWire is Week's wire shape, rendering FirstDayOfWeek as a bare
// YYYY-MM-DD string (spec.md §6).
type weekWire struct {
	WeekOfYear     uint8  `json:"weekOfYear"`
	WeekOfSemester int8   `json:"weekOfSemester"`
	FirstDayOfWeek string `json:"firstDayOfWeek"`
	Days           []Day  `json:"days"`
}

func (w Week) MarshalJSON() ([]byte, error) {
	return json.Marshal(weekWire{
		WeekOfYear:     w.WeekOfYear,
		WeekOfSemester: w.WeekOfSemester,
		FirstDayOfWeek: w.FirstDayOfWeek.Format("2006-01-02"),
		Days:           w.Days,
	})
}

func (w *Week) UnmarshalJSON(data []byte) error {
	var wire weekWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	firstDay, err := time.Parse("2006-01-02", wire.FirstDayOfWeek)
	if err != nil {
		return apperrors.NewInternal("parse week first day", err)
	}
	w.WeekOfYear = wire.WeekOfYear
	w.WeekOfSemester = wire.WeekOfSemester
	w.FirstDayOfWeek = firstDay
	w.Days = wire.Days
	return nil
}

// Schedule is the unit returned by ScheduleService; the service always
// returns exactly one week per request (spec.md §3).
type Schedule struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Weeks []Week `json:"weeks"`
}
