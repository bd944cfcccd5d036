package dialogue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

func TestRender_EmptyWeek(t *testing.T) {
	week := schedule.Week{WeekOfSemester: 5}
	out := Render(Reply{Kind: ReplyWeek, Week: week}, RenderTelegram)
	assert.Contains(t, out, "5 учебную неделю")
	assert.Contains(t, out, "Нет пар")
}

func TestRender_WeekOutsideSemester(t *testing.T) {
	week := schedule.Week{WeekOfSemester: -1}
	out := Render(Reply{Kind: ReplyWeek, Week: week}, RenderTelegram)
	assert.Contains(t, out, "Расписание на неделю")
}

func TestRender_DayWithClasses(t *testing.T) {
	day := schedule.Day{
		Date: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
		Classes: []schedule.Classes{
			{Name: "Базы данных", RawType: "лекция", Place: "ауд. 301",
				Time: schedule.ClassesTime{
					Start: time.Date(0, 1, 1, 9, 20, 0, 0, time.UTC),
					End:   time.Date(0, 1, 1, 10, 55, 0, 0, time.UTC),
				}, Number: 1},
		},
	}
	out := Render(Reply{Kind: ReplyDay, Day: day}, RenderTelegram)
	assert.Contains(t, out, "Базы данных")
	assert.Contains(t, out, "09:20")
	assert.Contains(t, out, "ауд. 301")
}

func TestRender_HelpDiffersByPlatform(t *testing.T) {
	tg := Render(Reply{Kind: ReplyShowHelp}, RenderTelegram)
	vk := Render(Reply{Kind: ReplyShowHelp}, RenderVK)
	assert.NotEqual(t, tg, vk)
}

func TestRenderDuration_Minutes(t *testing.T) {
	var b strings.Builder
	renderMinutes(12, &b)
	assert.Equal(t, "12 минут", b.String())

	var b2 strings.Builder
	renderMinutes(21, &b2)
	assert.Equal(t, "21 минуту", b2.String())

	var b3 strings.Builder
	renderMinutes(23, &b3)
	assert.Equal(t, "23 минуты", b3.String())
}
