package dialogue

import (
	"context"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

// handleUpcomingEvents mirrors the mpeix dashboard: it looks at the current
// and next week's days, drops everything already past, and predicts what's
// next (spec.md §4.10, grounded on GetUpcomingEventsUseCase).
func (s *Service) handleUpcomingEvents(ctx context.Context, peer Peer) (Reply, error) {
	var days []schedule.Day
	for _, offset := range [2]int8{0, 1} {
		sched, err := s.Schedule.GetSchedule(ctx, peer.SelectedSchedule.String(), peer.SelectedScheduleType, int32(offset))
		if err != nil {
			return Reply{}, err
		}
		for _, week := range sched.Weeks {
			days = append(days, week.Days...)
		}
	}

	now := s.now()

	filtered := days[:0]
	for _, day := range days {
		if sameDate(day.Date, now) {
			if hasClassEndingAfter(day, now) {
				filtered = append(filtered, day)
			}
			continue
		}
		if day.Date.After(now) {
			filtered = append(filtered, day)
		}
	}
	days = filtered

	if len(days) == 0 {
		return Reply{Kind: ReplyUpcomingEvents, Prediction: UpcomingEventsPrediction{Kind: PredictionNoClassesNextWeek}, ScheduleType: peer.SelectedScheduleType}, nil
	}

	actualDay := days[0]
	if sameDate(actualDay.Date, now) {
		if started, ok := classInProgress(actualDay, now); ok {
			future := classesAfter(actualDay, now)
			return Reply{
				Kind: ReplyUpcomingEvents,
				Prediction: UpcomingEventsPrediction{
					Kind:          PredictionClassesTodayStarted,
					InProgress:    started,
					FutureClasses: future,
				},
				ScheduleType: peer.SelectedScheduleType,
			}, nil
		}
		future := classesAfter(actualDay, now)
		return Reply{
			Kind: ReplyUpcomingEvents,
			Prediction: UpcomingEventsPrediction{
				Kind:           PredictionClassesTodayNotStarted,
				FutureClasses:  future,
				TimePrediction: TimePrediction{WithinOneDay: true, Duration: combineDateAndTime(actualDay.Date, future[0].Time.Start).Sub(now)},
			},
			ScheduleType: peer.SelectedScheduleType,
		}, nil
	}

	firstStart := combineDateAndTime(actualDay.Date, actualDay.Classes[0].Time.Start)
	return Reply{
		Kind: ReplyUpcomingEvents,
		Prediction: UpcomingEventsPrediction{
			Kind:           PredictionClassesInNDays,
			FutureClasses:  actualDay.Classes,
			TimePrediction: TimePrediction{WithinOneDay: false, Date: actualDay.Date, Duration: firstStart.Sub(now)},
		},
		ScheduleType: peer.SelectedScheduleType,
	}, nil
}

// combineDateAndTime builds a time.Time from date's year/month/day and
// clock's hour/minute, since schedule.ClassesTime carries no date.
func combineDateAndTime(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location())
}

func hasClassEndingAfter(day schedule.Day, now time.Time) bool {
	for _, cls := range day.Classes {
		if combineDateAndTime(day.Date, cls.Time.End).After(now) {
			return true
		}
	}
	return false
}

func classInProgress(day schedule.Day, now time.Time) (schedule.Classes, bool) {
	for _, cls := range day.Classes {
		start := combineDateAndTime(day.Date, cls.Time.Start)
		end := combineDateAndTime(day.Date, cls.Time.End)
		if start.Before(now) && end.After(now) {
			return cls, true
		}
	}
	return schedule.Classes{}, false
}

func classesAfter(day schedule.Day, now time.Time) []schedule.Classes {
	var out []schedule.Classes
	for _, cls := range day.Classes {
		if combineDateAndTime(day.Date, cls.Time.Start).After(now) {
			out = append(out, cls)
		}
	}
	return out
}
