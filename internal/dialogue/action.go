// Package dialogue turns raw chat text into a schedule reply, grounded on
// original_source/crates/domain_bot/src/usecases.rs and
// original_source/crates/domain_bot/src/renderer.rs.
package dialogue

import (
	"regexp"
	"strings"
	"time"
)

// ActionKind is the closed set of intents a user's message can resolve to.
type ActionKind int

const (
	ActionStart ActionKind = iota
	ActionWeekWithOffset
	ActionDayWithOffset
	ActionChangeScheduleIntent
	ActionUpcomingEvents
	ActionHelp
	ActionUnknown
)

// Action is the result of classifying a user's message (spec.md §4.9).
type Action struct {
	Kind   ActionKind
	Offset int8   // meaningful for ActionWeekWithOffset / ActionDayWithOffset
	Text   string // cleared text, meaningful for ActionUnknown
}

var mentionsPattern = regexp.MustCompile(`(\[[^\]]*\],?)|(@\w+,?)`)

type dayOfWeekEntry struct {
	number   int
	variants []string
}

var dayOfWeekMap = []dayOfWeekEntry{
	{1, []string{"пн", "понедельник", "mon", "monday"}},
	{2, []string{"вт", "вторник", "tue", "tuesday"}},
	{3, []string{"ср", "среда", "wed", "wednesday"}},
	{4, []string{"чт", "четверг", "thu", "thursday"}},
	{5, []string{"пт", "пятница", "fri", "friday"}},
	{6, []string{"сб", "суббота", "sat", "saturday"}},
}

var dayOfWeekPattern = regexp.MustCompile(
	`^(пар[ыау]\s+)?((в|во)\s+)?(` + joinVariants(dayOfWeekMap) + `)$`,
)

type relDayEntry struct {
	offset   int8
	variants []string
}

var relDayMap = []relDayEntry{
	{2, []string{"послезавтра", "послезавтрашние", "послезавтрашний"}},
	{-2, []string{"позавчера", "позавчерашние", "позавчерашний"}},
	{0, []string{"сегодня", "сегодняшние", "сегодняшний", "/today"}},
	{-1, []string{"вчера", "вчерашние", "вчерашний", "/yesterday"}},
	{1, []string{"завтра", "завтрашние", "завтрашний", "/tomorrow"}},
}

var relDayPattern = regexp.MustCompile(
	`((пар[ыау])?(день)?\s+)?(` + joinRelVariants(relDayMap) + `)((\s+)(пар[ыау])?(день)?)?`,
)

func joinVariants(m []dayOfWeekEntry) string {
	var all []string
	for _, e := range m {
		all = append(all, e.variants...)
	}
	return strings.Join(all, "|")
}

func joinRelVariants(m []relDayEntry) string {
	var all []string
	for _, e := range m {
		all = append(all, regexp.QuoteMeta(e.variants[0]))
		for _, v := range e.variants[1:] {
			all = append(all, regexp.QuoteMeta(v))
		}
	}
	return strings.Join(all, "|")
}

// Classify turns text into an Action (spec.md §4.9). now is injected so
// day-of-week resolution is testable.
func Classify(text string, now time.Time) Action {
	cleared := strings.ToLower(strings.TrimSpace(mentionsPattern.ReplaceAllString(text, "")))

	switch cleared {
	case "старт", "начать", "start", "/start":
		return Action{Kind: ActionStart}
	case "статус", "ближайшие пары", "ближайшие", "status", "/status":
		return Action{Kind: ActionUpcomingEvents}
	case "помощь", "справка", "помоги", "help", "/help":
		return Action{Kind: ActionHelp}
	case "сменить", "сменить группу", "сменить расписание", "change", "/change":
		return Action{Kind: ActionChangeScheduleIntent}
	case "неделя", "эта неделя", "/thisweek":
		return Action{Kind: ActionWeekWithOffset, Offset: 0}
	case "следующая неделя", "/nextweek":
		return Action{Kind: ActionWeekWithOffset, Offset: 1}
	case "прошлая неделя", "/prevweek":
		return Action{Kind: ActionWeekWithOffset, Offset: -1}
	}

	if dayOfWeekPattern.MatchString(cleared) {
		return Action{Kind: ActionDayWithOffset, Offset: dayOffsetFor(cleared, now)}
	}
	if relDayPattern.MatchString(cleared) {
		for _, e := range relDayMap {
			for _, v := range e.variants {
				if strings.Contains(cleared, v) {
					return Action{Kind: ActionDayWithOffset, Offset: e.offset}
				}
			}
		}
	}
	return Action{Kind: ActionUnknown, Text: cleared}
}

// dayOffsetFor computes the offset (spec.md §4.9: "offset = (requested -
// today) mod 7") between now's weekday and the weekday named in cleared.
func dayOffsetFor(cleared string, now time.Time) int8 {
	requested := 0
	for _, e := range dayOfWeekMap {
		for _, v := range e.variants {
			if strings.Contains(cleared, v) {
				requested = e.number
				break
			}
		}
	}
	current := int(now.Weekday())
	if current == 0 {
		current = 7
	}
	switch {
	case current == requested:
		return 0
	case current < requested:
		return int8(requested - current)
	default:
		return int8(requested + 7 - current)
	}
}
