package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

// Platform the rendered text is destined for; the help and unknown-command
// texts differ slightly per platform (spec.md §4.11).
type RenderTarget int

const (
	RenderTelegram RenderTarget = iota
	RenderVK
)

// Render turns a Reply into the chat message text (spec.md §4.11, grounded
// on original_source/crates/domain_bot/src/renderer.rs).
func Render(reply Reply, target RenderTarget) string {
	switch reply.Kind {
	case ReplyStartGreetings:
		return "Привет! Напиши номер своей группы или фамилию, чтобы начать."
	case ReplyAlreadyStarted:
		return fmt.Sprintf("Ты уже подключил расписание %s. Напиши \"сменить\", чтобы выбрать другое.", reply.ScheduleName)
	case ReplyWeek:
		return renderWeek(reply.Week)
	case ReplyDay:
		return renderDay(reply.DayOffset, reply.Day, true)
	case ReplyUpcomingEvents:
		return renderUpcomingEvents(reply.Prediction)
	case ReplyScheduleChangedSuccessfully:
		return fmt.Sprintf("Готово! Теперь я показываю расписание %s.", reply.ScheduleName)
	case ReplyScheduleSearchResults:
		var b strings.Builder
		fmt.Fprintf(&b, "Не нашёл точного совпадения с %q, может быть один из этих вариантов?\n\n", reply.SearchQuery)
		b.WriteString(strings.Join(reply.SearchResults, "\n"))
		return b.String()
	case ReplyCannotFindSchedule:
		return fmt.Sprintf("Не нашёл ничего похожего на %q.", reply.ScheduleName)
	case ReplyReadyToChangeSchedule:
		return "Напиши номер группы или фамилию."
	case ReplyShowHelp:
		if target == RenderVK {
			return helpTextVK
		}
		return helpTextTelegram
	case ReplyUnknownCommand:
		if target == RenderVK {
			return unknownCommandTextVK
		}
		return unknownCommandTextTelegram
	default:
		return ""
	}
}

const helpTextTelegram = "Команды: /thisweek, /nextweek, /prevweek, /today, /tomorrow, /status, /change"
const helpTextVK = "Команды: неделя, следующая неделя, прошлая неделя, сегодня, завтра, статус, сменить"
const unknownCommandTextTelegram = "Не понял команду. Напиши /help."
const unknownCommandTextVK = "Не понял команду. Напиши \"помощь\"."

func renderUpcomingEvents(p UpcomingEventsPrediction) string {
	var b strings.Builder
	switch p.Kind {
	case PredictionNoClassesNextWeek:
		b.WriteString("В ближайшие несколько дней нет пар")
	case PredictionClassesTodayNotStarted:
		renderTimePrediction(p.TimePrediction, &b)
		renderClassesList(p.FutureClasses, &b)
	case PredictionClassesTodayStarted:
		b.WriteString("Пара уже началась:\n\n")
		renderClasses(p.InProgress, &b)
		if len(p.FutureClasses) > 0 {
			b.WriteString("\n\nДалее:\n\n")
			renderClassesList(p.FutureClasses, &b)
		}
	case PredictionClassesInNDays:
		renderTimePrediction(p.TimePrediction, &b)
		renderClassesList(p.FutureClasses, &b)
	}
	return b.String()
}

func renderTimePrediction(tp TimePrediction, b *strings.Builder) {
	if tp.WithinOneDay {
		b.WriteString("Ближайшая пара начнется через ")
		renderDuration(tp.Duration, b)
	} else if tp.Duration.Hours() < 24 {
		b.WriteString("Ближайшая пара начнется через ")
		renderDuration(tp.Duration, b)
	} else {
		b.WriteString("Ближайшие пары ")
		b.WriteString(dayOfWeekGen(tp.Date.Weekday()))
		b.WriteString(", ")
		b.WriteString(fmt.Sprintf("%d", tp.Date.Day()))
		b.WriteString(" ")
		b.WriteString(monthName(tp.Date.Month()))
	}
	b.WriteString(":\n\n")
}

func renderWeek(week schedule.Week) string {
	var b strings.Builder
	if week.WeekOfSemester >= 1 && week.WeekOfSemester <= 18 {
		fmt.Fprintf(&b, "Расписание на %d учебную неделю\n\n", week.WeekOfSemester)
	} else {
		b.WriteString("Расписание на неделю\n\n")
	}
	if len(week.Days) == 0 {
		b.WriteString("Нет пар 🤷")
		return b.String()
	}
	for i, day := range week.Days {
		if i > 0 {
			b.WriteString("\n\n")
		}
		renderDayInto(0, day, &b, true)
	}
	return b.String()
}

func renderDay(offset int8, day schedule.Day, standalone bool) string {
	var b strings.Builder
	renderDayInto(offset, day, &b, !standalone)
	return b.String()
}

func renderDayInto(offset int8, day schedule.Day, b *strings.Builder, insideWeek bool) {
	if !insideWeek {
		b.WriteString("Расписание ")
	}
	if offset == 0 && !insideWeek {
		b.WriteString("сегодня\n\n")
	} else {
		if insideWeek {
			b.WriteString("📅 ")
			b.WriteString(dayOfWeekName(day.Date.Weekday()))
		} else {
			b.WriteString(dayOfWeekGen(day.Date.Weekday()))
		}
		b.WriteString(", ")
		b.WriteString(fmt.Sprintf("%d", day.Date.Day()))
		b.WriteString(" ")
		b.WriteString(monthName(day.Date.Month()))
		b.WriteString("\n\n")
	}
	if len(day.Classes) > 0 {
		renderClassesList(day.Classes, b)
	} else {
		b.WriteString("Нет пар 🤷")
	}
}

func renderClassesList(classes []schedule.Classes, b *strings.Builder) {
	for i, cls := range classes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		renderClasses(cls, b)
	}
}

func renderClasses(cls schedule.Classes, b *strings.Builder) {
	b.WriteString(emojiNumber(cls.Number))
	b.WriteString(" ")
	b.WriteString(cls.Name)
	if cls.RawType != "" {
		b.WriteString(" (")
		b.WriteString(cls.RawType)
		b.WriteString(")\n")
	}
	switch {
	case cls.Groups != "":
		b.WriteString("🎓 ")
		b.WriteString(cls.Groups)
		b.WriteString("\n")
	case cls.Person != "":
		b.WriteString("👨‍🏫 ")
		b.WriteString(cls.Person)
		b.WriteString("\n")
	}
	if cls.Place != "" {
		b.WriteString("🚪 ")
		b.WriteString(cls.Place)
		b.WriteString("\n")
	}
	b.WriteString("🕖 С ")
	b.WriteString(cls.Time.Start.Format("15:04"))
	b.WriteString(" до ")
	b.WriteString(cls.Time.End.Format("15:04"))
}

func emojiNumber(n int8) string {
	switch n {
	case 1:
		return "1️⃣"
	case 2:
		return "2️⃣"
	case 3:
		return "3️⃣"
	case 4:
		return "4️⃣"
	case 5:
		return "5️⃣"
	case 6:
		return "6️⃣"
	case 7:
		return "7️⃣"
	default:
		return "🟢"
	}
}

func dayOfWeekName(wd time.Weekday) string {
	switch numberFromMonday(wd) {
	case 1:
		return "понедельник"
	case 2:
		return "вторник"
	case 3:
		return "среда"
	case 4:
		return "четверг"
	case 5:
		return "пятница"
	case 6:
		return "суббота"
	default:
		return "воскресенье"
	}
}

func dayOfWeekGen(wd time.Weekday) string {
	switch numberFromMonday(wd) {
	case 1:
		return "в понедельник"
	case 2:
		return "во вторник"
	case 3:
		return "в среду"
	case 4:
		return "в четверг"
	case 5:
		return "в пятницу"
	case 6:
		return "в субботу"
	default:
		return "в воскресенье"
	}
}

func numberFromMonday(wd time.Weekday) int {
	n := int(wd)
	if n == 0 {
		return 7
	}
	return n
}

func monthName(m time.Month) string {
	switch m {
	case time.January:
		return "января"
	case time.February:
		return "февраля"
	case time.March:
		return "марта"
	case time.April:
		return "апреля"
	case time.May:
		return "мая"
	case time.June:
		return "июня"
	case time.July:
		return "июля"
	case time.August:
		return "августа"
	case time.September:
		return "сентября"
	case time.October:
		return "октября"
	case time.November:
		return "ноября"
	case time.December:
		return "декабря"
	default:
		return ""
	}
}

func renderDuration(d time.Duration, b *strings.Builder) {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		renderHours(h, b)
		b.WriteString(" ")
		renderMinutes(m, b)
	case h > 0:
		renderHours(h, b)
	case m > 0:
		renderMinutes(m, b)
	}
}

func renderMinutes(m int, b *strings.Builder) {
	if m >= 11 && m <= 19 {
		fmt.Fprintf(b, "%d минут", m)
		return
	}
	switch m % 10 {
	case 1:
		fmt.Fprintf(b, "%d минуту", m)
	case 2, 3, 4:
		fmt.Fprintf(b, "%d минуты", m)
	default:
		fmt.Fprintf(b, "%d минут", m)
	}
}

func renderHours(h int, b *strings.Builder) {
	if h >= 11 && h <= 19 {
		fmt.Fprintf(b, "%d часов", h)
		return
	}
	switch h % 10 {
	case 1:
		fmt.Fprintf(b, "%d час", h)
	case 2, 3, 4:
		fmt.Fprintf(b, "%d часа", h)
	default:
		fmt.Fprintf(b, "%d часов", h)
	}
}
