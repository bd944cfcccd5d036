package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

// Upstream is the subset of upstream.Client this service depends on.
type Upstream interface {
	Search(ctx context.Context, query string, t schedule.Type) ([]schedule.RawSearchResult, error)
}

type queryKey struct {
	query string
	typed bool
	t     schedule.Type
}

// Service implements the query-normalize -> cache -> remote ->
// relational-fallback -> rank pipeline from spec.md §4.8, grounded on
// original_source/crates/domain_schedule/src/usecases.rs
// (SearchScheduleUseCase).
type Service struct {
	Repo     *Repository
	Upstream Upstream
	Cache    *inmemory.Cache[queryKey, []Result]
}

// NewService builds a Service with a creation-expiring cache sized per
// spec.md §6's SCHEDULE_SEARCH_CACHE_* settings. queryKey is private to
// this package, so the cache is constructed here rather than accepted from
// the caller.
func NewService(repo *Repository, upstream Upstream, capacity int, lifetime time.Duration) *Service {
	return &Service{
		Repo:     repo,
		Upstream: upstream,
		Cache:    inmemory.New[queryKey, []Result](capacity, inmemory.Policy{MaxAgeCreation: lifetime}),
	}
}

// Search resolves query (optionally scoped to t) to a ranked slice of
// Results.
func (s *Service) Search(ctx context.Context, rawQuery string, t *schedule.Type) ([]Result, error) {
	q, err := schedule.NewSearchQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	key := queryKeyFor(q.String(), t)
	if cached, ok := s.Cache.Get(key); ok {
		return cached, nil
	}

	remote, remoteErr := s.fetchRemote(ctx, q.String(), t)
	if remoteErr == nil && len(remote) > 0 {
		_ = s.Repo.Upsert(ctx, remote)
	}

	rows, err := s.Repo.Select(ctx, q.String(), t)
	if err != nil {
		return nil, err
	}
	rankByIndex(rows, q.String())

	s.Cache.Insert(key, rows)
	return rows, nil
}

func (s *Service) fetchRemote(ctx context.Context, query string, t *schedule.Type) ([]Result, error) {
	if t != nil {
		raw, err := s.Upstream.Search(ctx, query, *t)
		if err != nil {
			return nil, err
		}
		return mapFromUpstream(raw)
	}

	var combined []Result
	for _, candidate := range []schedule.Type{schedule.Group, schedule.Person} {
		raw, err := s.Upstream.Search(ctx, query, candidate)
		if err != nil {
			continue
		}
		mapped, err := mapFromUpstream(raw)
		if err != nil {
			continue
		}
		combined = append(combined, mapped...)
	}
	return combined, nil
}

func queryKeyFor(query string, t *schedule.Type) queryKey {
	if t == nil {
		return queryKey{query: query}
	}
	return queryKey{query: query, typed: true, t: *t}
}

// rankByIndex sorts rows ascending by the byte position of query within the
// lowercased name, capped at len(rows); a row with no match also ranks at
// len(rows), so it ties with matches at or past that position. The sort is
// stable, so ties keep their original order (spec.md §4.8).
func rankByIndex(rows []Result, query string) {
	lowerQuery := strings.ToLower(query)
	noMatch := len(rows)

	indexOf := func(name string) int {
		if i := strings.Index(strings.ToLower(name), lowerQuery); i >= 0 {
			return i
		}
		return noMatch
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return indexOf(rows[i].Name) < indexOf(rows[j].Name)
	})
}
