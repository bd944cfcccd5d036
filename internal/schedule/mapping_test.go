package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMapToDomain_GroupsDaysAndSortsByDate(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	raw := []RawClass{
		{
			Auditorium:  "А-301",
			BeginLesson: mustTime("11:10"),
			EndLesson:   mustTime("12:45"),
			Date:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			Discipline:  "Алгебра",
			KindOfWork:  "Лекция",
			Lecturer:    "Иванов И.И.",
			Group:       "А-01-22",
		},
		{
			Auditorium:  "Б-101",
			BeginLesson: mustTime("09:20"),
			EndLesson:   mustTime("10:55"),
			Date:        time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
			Discipline:  "Физика",
			KindOfWork:  "Лабораторная работа",
			Lecturer:    "вакансия",
			Stream:      "П-01",
		},
	}

	sched, err := MapToDomain(Name("А-01-22"), weekStart, 42, Group, 5, raw)
	require.NoError(t, err)

	assert.Equal(t, "42", sched.ID)
	require.Len(t, sched.Weeks, 1)
	week := sched.Weeks[0]
	assert.Equal(t, int8(5), week.WeekOfSemester)
	require.Len(t, week.Days, 2)

	assert.True(t, week.Days[0].Date.Before(week.Days[1].Date))

	mon := week.Days[0]
	require.Len(t, mon.Classes, 1)
	assert.Equal(t, Lab, mon.Classes[0].Type)
	assert.Equal(t, "П-01", mon.Classes[0].Groups)
	assert.Empty(t, mon.Classes[0].Person, "вакансия lecturer must be blanked")
	assert.Equal(t, int8(1), mon.Classes[0].Number)

	wed := week.Days[1]
	require.Len(t, wed.Classes, 1)
	assert.Equal(t, Lecture, wed.Classes[0].Type)
	assert.Equal(t, "А-01-22", wed.Classes[0].Groups)
	assert.Equal(t, "Иванов И.И.", wed.Classes[0].Person)
	assert.Equal(t, int8(2), wed.Classes[0].Number)
}

func TestMapToDomain_UnknownStartTimeYieldsNegativeOne(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	raw := []RawClass{{
		BeginLesson: mustTime("08:00"),
		EndLesson:   mustTime("08:45"),
		Date:        weekStart,
		Discipline:  "Other",
		KindOfWork:  "Прочее",
	}}
	sched, err := MapToDomain(Name("X"), weekStart, 1, Group, 1, raw)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), sched.Weeks[0].Days[0].Classes[0].Number)
	assert.Equal(t, Undefined, sched.Weeks[0].Days[0].Classes[0].Type)
}

func TestRepairShift_RewritesOnlyWeekOfSemester(t *testing.T) {
	s := Schedule{Weeks: []Week{{WeekOfSemester: 3, WeekOfYear: 5}}}
	changed := RepairShift(&s, 4)
	assert.True(t, changed)
	assert.Equal(t, int8(4), s.Weeks[0].WeekOfSemester)
	assert.Equal(t, uint8(5), s.Weeks[0].WeekOfYear)
}

func TestRepairShift_NoChangeWhenEqual(t *testing.T) {
	s := Schedule{Weeks: []Week{{WeekOfSemester: 3}}}
	changed := RepairShift(&s, 3)
	assert.False(t, changed)
}

func TestClassifyType_OrderedSubstringMatch(t *testing.T) {
	cases := map[string]ClassesType{
		"Лекция":               Lecture,
		"Лабораторная работа":  Lab,
		"Практическое занятие": Practice,
		"Курсовой проект":      Course,
		"КП":                   Course,
		"Экзамен":              Exam,
		"Консультация":         Consultation,
		"что-то еще":           Undefined,
	}
	for raw, want := range cases {
		assert.Equal(t, want, classifyType(raw), raw)
	}
}
