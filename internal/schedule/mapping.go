package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// RawClass is one lesson as decoded from the upstream provider's wire
// format (spec.md §4.4): auditorium, beginLesson/endLesson (HH:MM), date
// (YYYY.MM.DD), discipline, kindOfWork, lecturer, and one of
// stream/group identifying the attendee group.
type RawClass struct {
	Auditorium  string
	BeginLesson time.Time
	EndLesson   time.Time
	Date        time.Time
	Discipline  string
	KindOfWork  string
	Lecturer    string
	Stream      string
	Group       string
}

// RawSearchResult is one upstream search hit (spec.md §4.4).
type RawSearchResult struct {
	ID          int64
	Label       string
	Description string
	Type        string
}

// MapToDomain converts raw upstream classes for one week into a Schedule,
// grounded on
// original_source/domain_schedule/src/schedule/mapping.rs::map_schedule_models.
func MapToDomain(name Name, weekStart time.Time, id int64, t Type, weekOfSemester int8, raw []RawClass) (Schedule, error) {
	byDate := make(map[string][]Classes)
	var order []string
	for _, c := range raw {
		cls := Classes{
			Name:    c.Discipline,
			Type:    classifyType(c.KindOfWork),
			RawType: c.KindOfWork,
			Place:   c.Auditorium,
			Groups:  groupsOf(c),
			Person:  checkIsNotEmpty(c.Lecturer),
			Time:    ClassesTime{Start: c.BeginLesson, End: c.EndLesson},
			Number:  numberFromStart(c.BeginLesson),
		}
		key := c.Date.Format("2006-01-02")
		if _, ok := byDate[key]; !ok {
			order = append(order, key)
		}
		byDate[key] = append(byDate[key], cls)
	}
	sort.Strings(order)

	days := make([]Day, 0, len(order))
	for _, key := range order {
		date, err := time.ParseInLocation("2006-01-02", key, time.UTC)
		if err != nil {
			return Schedule{}, apperrors.Wrap(err, "parse class date")
		}
		days = append(days, Day{
			DayOfWeek: numberFromMonday(date),
			Date:      date,
			Classes:   byDate[key],
		})
	}

	_, weekOfYear := weekStart.ISOWeek()
	return Schedule{
		ID:   strconv.FormatInt(id, 10),
		Name: name.String(),
		Type: t,
		Weeks: []Week{{
			WeekOfSemester: weekOfSemester,
			WeekOfYear:     uint8(weekOfYear),
			FirstDayOfWeek: weekStart,
			Days:           days,
		}},
	}, nil
}

// RepairShift rewrites only the WeekOfSemester field of a cached Schedule
// when it no longer matches the freshly computed value (spec.md §4.7's
// maybeRepairShift), leaving every other field untouched.
func RepairShift(s *Schedule, weekOfSemester int8) bool {
	if len(s.Weeks) == 0 || s.Weeks[0].WeekOfSemester == weekOfSemester {
		return false
	}
	s.Weeks[0].WeekOfSemester = weekOfSemester
	return true
}

func groupsOf(c RawClass) string {
	if c.Stream != "" {
		return c.Stream
	}
	if c.Group != "" {
		return c.Group
	}
	return ""
}

// checkIsNotEmpty filters out placeholder lecturer names (spec.md §3/§4,
// grounded on mapping.rs::check_is_not_empty): upstream marks an unfilled
// slot with "вакансия" ("vacancy").
func checkIsNotEmpty(lecturer string) string {
	if strings.Contains(strings.ToLower(lecturer), "вакансия") {
		return ""
	}
	return strings.TrimSpace(lecturer)
}

func numberFromMonday(t time.Time) uint8 {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return uint8(wd)
}
