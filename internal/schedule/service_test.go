package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpeix-go/schedule-backend/internal/calendar"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

type stubCache struct {
	store map[Key]Schedule
	// onlyStaleHits simulates an expired cache entry: present in store,
	// but only returned when the caller passes allowStale=true.
	onlyStaleHits bool
	gets          int
}

func newStubCache() *stubCache { return &stubCache{store: map[Key]Schedule{}} }

func (c *stubCache) Get(ctx context.Context, key Key, allowStale bool) (Schedule, bool, error) {
	c.gets++
	s, ok := c.store[key]
	if ok && c.onlyStaleHits && !allowStale {
		return Schedule{}, false, nil
	}
	return s, ok, nil
}

func (c *stubCache) Insert(ctx context.Context, key Key, value Schedule) error {
	c.store[key] = value
	return nil
}

type stubIDs struct{ id int64 }

func (r stubIDs) GetID(ctx context.Context, name Name, t Type) (int64, error) { return r.id, nil }

type stubUpstream struct {
	classes []RawClass
	err     error
	calls   int
}

func (u *stubUpstream) GetSchedule(ctx context.Context, t Type, id int64, start, end time.Time) ([]RawClass, error) {
	u.calls++
	return u.classes, u.err
}

type stubCooldown struct {
	active    bool
	activated bool
}

func (c *stubCooldown) IsActive() bool { return c.active }
func (c *stubCooldown) Activate()      { c.activated = true }

func newTestService(cache *stubCache, ids IDResolver, up *stubUpstream, cd *stubCooldown, now time.Time) *Service {
	return &Service{
		Calendar: calendar.NewEngine(nil),
		Cache:    cache,
		IDs:      ids,
		Upstream: up,
		Cooldown: cd,
		Now:      func() time.Time { return now },
	}
}

func TestGetSchedule_CacheHit(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	cache := newStubCache()
	key := Key{Name: Name("A-01-22"), Type: Group, WeekStart: weekStart}
	cache.store[key] = Schedule{ID: "1", Weeks: []Week{{WeekOfSemester: 1}}}

	up := &stubUpstream{}
	svc := newTestService(cache, stubIDs{id: 1}, up, &stubCooldown{}, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	_, err := svc.GetSchedule(context.Background(), "a-1-22", Group, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, up.calls, "upstream must not be called on cache hit")
}

func TestGetSchedule_RemoteFetchOnMiss(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	cache := newStubCache()
	up := &stubUpstream{classes: []RawClass{{
		BeginLesson: mustTime("09:20"), EndLesson: mustTime("10:55"),
		Date: weekStart, Discipline: "Алгебра", KindOfWork: "Лекция",
	}}}
	svc := newTestService(cache, stubIDs{id: 1}, up, &stubCooldown{}, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	sched, err := svc.GetSchedule(context.Background(), "A-01-22", Group, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, up.calls)
	require.Len(t, sched.Weeks[0].Days, 1)

	key := Key{Name: Name("A-01-22"), Type: Group, WeekStart: weekStart}
	_, ok := cache.store[key]
	assert.True(t, ok, "fresh schedule must be written to cache")
}

func TestGetSchedule_StaleFallbackOnUpstreamFailure(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	cache := newStubCache()
	key := Key{Name: Name("A-01-22"), Type: Group, WeekStart: weekStart}
	cache.store[key] = Schedule{ID: "1", Weeks: []Week{{WeekOfSemester: 1}}}

	cache.onlyStaleHits = true
	up := &stubUpstream{err: apperrors.NewGateway("unreachable", nil)}
	cd := &stubCooldown{}
	svc := newTestService(cache, stubIDs{id: 1}, up, cd, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	sched, err := svc.GetSchedule(context.Background(), "A-01-22", Group, 0)
	require.NoError(t, err, "must fall back to the stale cached entry")
	assert.Equal(t, "1", sched.ID)
	assert.True(t, cd.activated, "cooldown must activate on gateway failure")
	assert.Equal(t, 1, up.calls)
}

func TestGetSchedule_RejectsOutOfRangeOffset(t *testing.T) {
	cache := newStubCache()
	svc := newTestService(cache, stubIDs{id: 1}, &stubUpstream{}, &stubCooldown{}, time.Now())

	_, err := svc.GetSchedule(context.Background(), "A-01-22", Group, 1<<30)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUser, apperrors.FromError(err).Kind)
}

func TestGetSchedule_RepairsShiftOnCacheHit(t *testing.T) {
	weekStart := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	cache := newStubCache()
	key := Key{Name: Name("A-01-22"), Type: Group, WeekStart: weekStart}
	cache.store[key] = Schedule{ID: "1", Weeks: []Week{{WeekOfSemester: 99}}}

	svc := newTestService(cache, stubIDs{id: 1}, &stubUpstream{}, &stubCooldown{}, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	sched, err := svc.GetSchedule(context.Background(), "A-01-22", Group, 0)
	require.NoError(t, err)
	assert.NotEqual(t, int8(99), sched.Weeks[0].WeekOfSemester)
	assert.Equal(t, sched.Weeks[0].WeekOfSemester, cache.store[key].Weeks[0].WeekOfSemester)
}
