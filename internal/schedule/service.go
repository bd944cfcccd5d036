package schedule

import (
	"context"
	"math"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/calendar"
	"github.com/mpeix-go/schedule-backend/internal/metrics"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// maxOffset/minOffset bound the week offset to spec.md §4.7's
// |offset| < MAX_INT32/7 invariant.
const (
	maxOffset = math.MaxInt32 / 7
	minOffset = math.MinInt32 / 7
)

// Mediator is the subset of cache/mediator.Mediator this service depends
// on, parameterized over Key and Schedule.
type Mediator interface {
	Get(ctx context.Context, key Key, allowStale bool) (Schedule, bool, error)
	Insert(ctx context.Context, key Key, value Schedule) error
}

// IDResolver is the subset of idresolver.Resolver this service depends on.
type IDResolver interface {
	GetID(ctx context.Context, name Name, t Type) (int64, error)
}

// Upstream is the subset of upstream.Client this service depends on.
type Upstream interface {
	GetSchedule(ctx context.Context, t Type, id int64, start, end time.Time) ([]RawClass, error)
}

// Cooldown is the subset of cooldown.Repository this service depends on.
type Cooldown interface {
	Activate()
	IsActive() bool
}

// Clock abstracts "now" for testability.
type Clock func() time.Time

// Service implements the central cache-read -> stale-fallback -> remote ->
// cache-write algorithm (spec.md §4.7), grounded on
// original_source/crates/domain_schedule/src/usecases.rs
// (GetScheduleUseCase).
type Service struct {
	Calendar         *calendar.Engine
	Cache            Mediator
	IDs              IDResolver
	Upstream         Upstream
	Cooldown         Cooldown
	CooldownDuration time.Duration
	Now              Clock
}

// GetSchedule returns exactly one week of Schedule for name/type at the
// given offset from the current week.
func (s *Service) GetSchedule(ctx context.Context, rawName string, t Type, offset int32) (Schedule, error) {
	if int(offset) >= maxOffset {
		return Schedule{}, apperrors.NewUser("too large offset")
	}
	if int(offset) <= minOffset {
		return Schedule{}, apperrors.NewUser("too small offset")
	}

	name, err := NewName(rawName, t)
	if err != nil {
		return Schedule{}, err
	}

	now := s.now()
	weekStart := calendar.MondayOf(now.AddDate(0, 0, int(offset)*7))
	wos := s.Calendar.WeekOfSemester(weekStart)
	key := Key{Name: name, Type: t, WeekStart: weekStart}

	cooldownActive := s.Cooldown != nil && s.Cooldown.IsActive()
	allowStaleFirstPass := cooldownActive || calendar.IsPastWeek(weekStart, now)

	if cached, ok, err := s.Cache.Get(ctx, key, allowStaleFirstPass); err != nil {
		return Schedule{}, err
	} else if ok {
		metrics.CacheResult.WithLabelValues("schedule", "hit").Inc()
		s.maybeRepairShift(ctx, key, &cached, wos)
		return cached, nil
	}
	metrics.CacheResult.WithLabelValues("schedule", "miss").Inc()

	id, err := s.IDs.GetID(ctx, name, t)
	if err != nil {
		return Schedule{}, err
	}

	upstreamStart := s.now()
	raw, fetchErr := s.Upstream.GetSchedule(ctx, t, id, weekStart, weekStart.AddDate(0, 0, 6))
	metrics.UpstreamLatency.WithLabelValues("get_schedule").Observe(s.now().Sub(upstreamStart).Seconds())
	var fresh Schedule
	if fetchErr == nil {
		fresh, fetchErr = MapToDomain(name, weekStart, id, t, wos, raw)
	}

	if fetchErr != nil {
		metrics.UpstreamErrors.WithLabelValues("get_schedule").Inc()
		if apperrors.Is(fetchErr, apperrors.KindGateway) && s.Cooldown != nil {
			s.Cooldown.Activate()
		}
		if !allowStaleFirstPass {
			if cached, ok, err := s.Cache.Get(ctx, key, true); err == nil && ok {
				metrics.CacheResult.WithLabelValues("schedule", "stale").Inc()
				s.maybeRepairShift(ctx, key, &cached, wos)
				return cached, nil
			}
		}
		return Schedule{}, fetchErr
	}

	if err := s.Cache.Insert(ctx, key, fresh); err != nil {
		return Schedule{}, err
	}
	return fresh, nil
}

// maybeRepairShift compares the cached week_of_semester with the freshly
// computed value; if they differ it rewrites that field alone and
// re-inserts (spec.md §4.7). Insert errors are intentionally swallowed —
// a repair failure must not block returning the otherwise-valid cached
// schedule.
func (s *Service) maybeRepairShift(ctx context.Context, key Key, cached *Schedule, wos int8) {
	if !RepairShift(cached, wos) {
		return
	}
	_ = s.Cache.Insert(ctx, key, *cached)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
