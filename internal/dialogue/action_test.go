package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify_ExactAliases(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC) // Thursday

	cases := []struct {
		text string
		kind ActionKind
		off  int8
	}{
		{"старт", ActionStart, 0},
		{"/start", ActionStart, 0},
		{"статус", ActionUpcomingEvents, 0},
		{"помощь", ActionHelp, 0},
		{"/change", ActionChangeScheduleIntent, 0},
		{"неделя", ActionWeekWithOffset, 0},
		{"следующая неделя", ActionWeekWithOffset, 1},
		{"прошлая неделя", ActionWeekWithOffset, -1},
	}
	for _, c := range cases {
		a := Classify(c.text, now)
		assert.Equalf(t, c.kind, a.Kind, "text=%q", c.text)
		if c.kind == ActionWeekWithOffset {
			assert.Equal(t, c.off, a.Offset, c.text)
		}
	}
}

func TestClassify_MentionsAreStrippedBeforeMatching(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	a := Classify("@bot_username старт", now)
	assert.Equal(t, ActionStart, a.Kind)
}

func TestClassify_RelativeDay(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	a := Classify("сегодня", now)
	assert.Equal(t, ActionDayWithOffset, a.Kind)
	assert.Equal(t, int8(0), a.Offset)

	a = Classify("завтра", now)
	assert.Equal(t, ActionDayWithOffset, a.Kind)
	assert.Equal(t, int8(1), a.Offset)

	a = Classify("послезавтра", now)
	assert.Equal(t, int8(2), a.Offset)

	a = Classify("/yesterday", now)
	assert.Equal(t, int8(-1), a.Offset)
}

func TestClassify_DayOfWeek(t *testing.T) {
	// Thursday 2026-07-30 -> asking for "пятница" (Friday) is offset 1.
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	a := Classify("пятница", now)
	assert.Equal(t, ActionDayWithOffset, a.Kind)
	assert.Equal(t, int8(1), a.Offset)

	// asking for "понедельник" (Monday) wraps to next week: offset 4.
	a = Classify("пары в понедельник", now)
	assert.Equal(t, ActionDayWithOffset, a.Kind)
	assert.Equal(t, int8(4), a.Offset)

	// asking for today's own weekday is offset 0.
	a = Classify("чт", now)
	assert.Equal(t, int8(0), a.Offset)
}

func TestClassify_UnknownFallsThroughToText(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	a := Classify("ИВТ-01-20", now)
	assert.Equal(t, ActionUnknown, a.Kind)
	assert.Equal(t, "ивт-01-20", a.Text)
}
