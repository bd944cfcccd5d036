package dialogue

import (
	"context"
	"strings"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/internal/search"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// ScheduleProvider is the subset of schedule.Service this package depends
// on.
type ScheduleProvider interface {
	GetSchedule(ctx context.Context, rawName string, t schedule.Type, offset int32) (schedule.Schedule, error)
}

// SearchProvider is the subset of search.Service this package depends on.
type SearchProvider interface {
	Search(ctx context.Context, rawQuery string, t *schedule.Type) ([]search.Result, error)
}

// Peers is the subset of PeerRepository this package depends on.
type Peers interface {
	GetByPlatformID(ctx context.Context, id PlatformID) (Peer, error)
	Save(ctx context.Context, peer Peer) error
}

// Clock returns the current time; overridable in tests.
type Clock func() time.Time

// Service implements GenerateReply from spec.md §4.9, grounded on
// original_source/crates/domain_bot/src/usecases.rs (GenerateReplyUseCase).
type Service struct {
	Peers    Peers
	Schedule ScheduleProvider
	Search   SearchProvider
	Now      Clock
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GenerateReply resolves text sent by the peer behind id into a Reply.
func (s *Service) GenerateReply(ctx context.Context, id PlatformID, text string) (Reply, error) {
	action := Classify(text, s.now())

	peer, err := s.Peers.GetByPlatformID(ctx, id)
	if err != nil {
		return Reply{}, err
	}

	if peer.IsNotStarted() && action.Kind != ActionUnknown {
		return s.handleStart(ctx, peer)
	}
	if peer.SelectedSchedule == "" && peer.SelectingSchedule && action.Kind != ActionUnknown {
		return Reply{Kind: ReplyReadyToChangeSchedule}, nil
	}

	switch action.Kind {
	case ActionStart:
		return s.handleStart(ctx, peer)
	case ActionWeekWithOffset:
		return s.handleWeekWithOffset(ctx, peer, action.Offset)
	case ActionDayWithOffset:
		return s.handleDayWithOffset(ctx, peer, action.Offset)
	case ActionUnknown:
		if peer.SelectingSchedule || peer.SelectedSchedule == "" {
			return s.handleScheduleSearch(ctx, peer, action.Text)
		}
		return Reply{Kind: ReplyUnknownCommand}, nil
	case ActionChangeScheduleIntent:
		peer.SelectingSchedule = true
		if err := s.Peers.Save(ctx, peer); err != nil {
			return Reply{}, err
		}
		return Reply{Kind: ReplyReadyToChangeSchedule}, nil
	case ActionHelp:
		return Reply{Kind: ReplyShowHelp}, nil
	case ActionUpcomingEvents:
		return s.handleUpcomingEvents(ctx, peer)
	default:
		return Reply{}, apperrors.NewInternal("unreachable action kind", nil)
	}
}

func (s *Service) handleStart(ctx context.Context, peer Peer) (Reply, error) {
	if peer.SelectedSchedule == "" {
		peer.SelectingSchedule = true
		if err := s.Peers.Save(ctx, peer); err != nil {
			return Reply{}, err
		}
		return Reply{Kind: ReplyStartGreetings}, nil
	}
	name := peer.SelectedSchedule.String()
	if err := s.resetSelectionIfNeeded(ctx, peer); err != nil {
		return Reply{}, err
	}
	return Reply{Kind: ReplyAlreadyStarted, ScheduleName: name}, nil
}

func (s *Service) handleWeekWithOffset(ctx context.Context, peer Peer, offset int8) (Reply, error) {
	sched, err := s.Schedule.GetSchedule(ctx, peer.SelectedSchedule.String(), peer.SelectedScheduleType, int32(offset))
	if err != nil {
		return Reply{}, err
	}
	if len(sched.Weeks) == 0 {
		return Reply{}, apperrors.NewInternal("schedule has no week", nil)
	}
	if err := s.resetSelectionIfNeeded(ctx, peer); err != nil {
		return Reply{}, err
	}
	return Reply{Kind: ReplyWeek, WeekOffset: offset, Week: sched.Weeks[0], ScheduleType: sched.Type}, nil
}

func (s *Service) handleDayWithOffset(ctx context.Context, peer Peer, offset int8) (Reply, error) {
	now := s.now()
	selectedDate := now.AddDate(0, 0, int(offset))
	weekOffset := int8(isoWeek(selectedDate) - isoWeek(now))

	sched, err := s.Schedule.GetSchedule(ctx, peer.SelectedSchedule.String(), peer.SelectedScheduleType, int32(weekOffset))
	if err != nil {
		return Reply{}, err
	}

	var day schedule.Day
	found := false
	for _, week := range sched.Weeks {
		for _, d := range week.Days {
			if sameDate(d.Date, selectedDate) {
				day, found = d, true
				break
			}
		}
	}
	if !found {
		wd := int(selectedDate.Weekday())
		if wd == 0 {
			wd = 7
		}
		day = schedule.Day{DayOfWeek: uint8(wd), Date: selectedDate}
	}

	if err := s.resetSelectionIfNeeded(ctx, peer); err != nil {
		return Reply{}, err
	}
	return Reply{Kind: ReplyDay, DayOffset: offset, Day: day, ScheduleType: sched.Type}, nil
}

func (s *Service) handleScheduleSearch(ctx context.Context, peer Peer, q string) (Reply, error) {
	results, err := s.Search.Search(ctx, q, nil)
	if err != nil {
		return Reply{}, apperrors.Wrap(err, "search schedule for change")
	}

	for _, r := range results {
		if strings.ToLower(r.Name) == q {
			peer.SelectedSchedule = schedule.Name(r.Name)
			peer.SelectedScheduleType = r.Type
			peer.SelectingSchedule = false
			if err := s.Peers.Save(ctx, peer); err != nil {
				return Reply{}, err
			}
			return Reply{Kind: ReplyScheduleChangedSuccessfully, ScheduleName: r.Name}, nil
		}
	}

	if len(results) == 0 {
		return Reply{Kind: ReplyCannotFindSchedule, ScheduleName: q}, nil
	}

	rankByIndex(results, q)
	hasPerson := false
	for _, r := range results {
		if r.Type == schedule.Person {
			hasPerson = true
			break
		}
	}
	limit := 6
	if hasPerson {
		limit = 3
	}
	if len(results) > limit {
		results = results[:limit]
	}
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return Reply{Kind: ReplyScheduleSearchResults, SearchQuery: q, SearchResults: names, SearchResultsHasPerson: hasPerson}, nil
}

func (s *Service) resetSelectionIfNeeded(ctx context.Context, peer Peer) error {
	if !peer.SelectingSchedule {
		return nil
	}
	peer.SelectingSchedule = false
	return s.Peers.Save(ctx, peer)
}

func rankByIndex(results []search.Result, query string) {
	lowerQuery := strings.ToLower(query)
	noMatch := len(results)
	indexOf := func(name string) int {
		if i := strings.Index(strings.ToLower(name), lowerQuery); i >= 0 {
			return i
		}
		return noMatch
	}
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && indexOf(results[j].Name) < indexOf(results[j-1].Name); j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

func sameDate(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
