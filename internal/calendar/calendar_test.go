package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMonday(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	require.Equal(t, time.Monday, d.Weekday(), "fixture date must be a Monday")
	return d
}

func TestWeekOfSemester_NonStudyingMonths(t *testing.T) {
	e := NewEngine(nil)
	for _, d := range []string{"2024-07-01", "2024-07-29", "2024-08-05", "2024-08-26"} {
		date, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		assert.Equal(t, NonStudying, e.WeekOfSemester(date), "date %s", d)
	}
}

func TestWeekOfSemester_FallDefault(t *testing.T) {
	e := NewEngine(nil)
	// 2024-09-02 is a Monday; Sept 1 2024 is a Sunday, so the reference
	// bumps to Sept 2, making this week 1.
	assert.Equal(t, int8(1), e.WeekOfSemester(mustMonday(t, "2024-09-02")))
	assert.Equal(t, int8(2), e.WeekOfSemester(mustMonday(t, "2024-09-09")))
}

func TestWeekOfSemester_SpringDefault(t *testing.T) {
	e := NewEngine(nil)
	// Feb 1 2021 is a Monday.
	assert.Equal(t, int8(1), e.WeekOfSemester(mustMonday(t, "2021-02-01")))
	assert.Equal(t, int8(2), e.WeekOfSemester(mustMonday(t, "2021-02-08")))
}

func TestWeekOfSemester_OutOfRangeIsNonStudying(t *testing.T) {
	e := NewEngine(nil)
	// January rolls back to a "future" September-1 reference of the same
	// year, producing a negative/ out-of-range result.
	assert.Equal(t, NonStudying, e.WeekOfSemester(mustMonday(t, "2024-01-08")))
}

type stubShiftProvider map[shiftKey]ShiftRule

func (s stubShiftProvider) Get(year int, semester Semester) (ShiftRule, bool) {
	rule, ok := s[shiftKey{year: year, semester: semester}]
	return rule, ok
}

func TestWeekOfSemester_WithOverride(t *testing.T) {
	weekZero := int8(0)
	shift := stubShiftProvider{
		{year: 2021, semester: Spring}: {
			FirstDay:   mustMonday(t, "2021-02-15"),
			WeekNumber: &weekZero,
		},
	}
	e := NewEngine(shift)
	assert.Equal(t, NonStudying, e.WeekOfSemester(mustMonday(t, "2021-02-15")))
	assert.Equal(t, int8(1), e.WeekOfSemester(mustMonday(t, "2021-02-22")))
}

func TestMondayOf(t *testing.T) {
	d, err := time.Parse("2006-01-02", "2024-01-31") // Wednesday
	require.NoError(t, err)
	monday := MondayOf(d)
	assert.Equal(t, "2024-01-29", monday.Format("2006-01-02"))
	assert.Equal(t, time.Monday, monday.Weekday())
}

func TestIsPastWeek(t *testing.T) {
	now := mustMonday(t, "2024-02-05")
	lastWeek := mustMonday(t, "2024-01-29")
	assert.True(t, IsPastWeek(lastWeek, now))
	assert.False(t, IsPastWeek(now, now))
}
