package dialogue

import (
	"time"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

// Platform identifies which messenger a Peer was reached through.
type Platform int

const (
	PlatformTelegram Platform = iota
	PlatformVK
)

// PlatformID addresses a Peer by platform and platform-native chat id.
type PlatformID struct {
	Platform Platform
	ChatID   int64
}

// Peer is one chat's persisted dialogue state (spec.md §4.9, grounded on
// original_source/crates/domain_bot/src/models.rs).
type Peer struct {
	ID                  int64
	SelectedSchedule    schedule.Name
	SelectedScheduleType schedule.Type
	SelectingSchedule   bool
}

// IsNotStarted reports whether peer has never picked a schedule and is not
// mid-selection.
func (p Peer) IsNotStarted() bool {
	return p.SelectedSchedule == "" && !p.SelectingSchedule
}

// ReplyKind is the closed set of reply shapes rendered to chat text
// (spec.md §4.9/§4.11).
type ReplyKind int

const (
	ReplyStartGreetings ReplyKind = iota
	ReplyAlreadyStarted
	ReplyWeek
	ReplyDay
	ReplyUpcomingEvents
	ReplyScheduleChangedSuccessfully
	ReplyScheduleSearchResults
	ReplyCannotFindSchedule
	ReplyReadyToChangeSchedule
	ReplyShowHelp
	ReplyUnknownCommand
)

// Reply is the use-case output handed to the renderer (spec.md §4.11).
type Reply struct {
	Kind ReplyKind

	ScheduleName string // AlreadyStarted, ScheduleChangedSuccessfully, CannotFindSchedule

	WeekOffset   int8
	Week         schedule.Week
	ScheduleType schedule.Type // Week, Day, UpcomingEvents

	DayOffset int8
	Day       schedule.Day

	Prediction UpcomingEventsPrediction

	SearchQuery              string
	SearchResults            []string
	SearchResultsHasPerson   bool
}

// UpcomingEventsPrediction is the closed set of "what's next" shapes
// (spec.md §4.10, grounded on GetUpcomingEventsUseCase).
type UpcomingEventsPrediction struct {
	Kind            PredictionKind
	InProgress      schedule.Classes
	FutureClasses   []schedule.Classes
	TimePrediction  TimePrediction
}

type PredictionKind int

const (
	PredictionNoClassesNextWeek PredictionKind = iota
	PredictionClassesTodayStarted
	PredictionClassesTodayNotStarted
	PredictionClassesInNDays
)

// TimePrediction is how far away the next class is (spec.md §4.10).
type TimePrediction struct {
	WithinOneDay bool
	Date         time.Time // only set when !WithinOneDay
	Duration     time.Duration
}
