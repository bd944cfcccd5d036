// Package idresolver caches name+type → upstream numeric id, grounded on
// original_source/crates/domain_schedule/src/id/repository.rs
// (ScheduleIdRepository).
package idresolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// Searcher is the subset of upstream.Client the resolver depends on.
type Searcher interface {
	Search(ctx context.Context, query string, t schedule.Type) ([]schedule.RawSearchResult, error)
}

type cacheKey struct {
	name string
	t    schedule.Type
}

// Resolver caches (name, type) -> id with fuzzy-equality validation on
// remote hits (spec.md §4.5).
type Resolver struct {
	api   Searcher
	cache *inmemory.Cache[cacheKey, int64]
}

// New builds a Resolver over a freshly constructed InMemoryCache, sized per
// spec.md §6's SCHEDULE_ID_CACHE_* settings. cacheKey is private to this
// package, so the cache itself is built here rather than accepted from the
// caller.
func New(api Searcher, capacity int, policy inmemory.Policy) *Resolver {
	return &Resolver{api: api, cache: inmemory.New[cacheKey, int64](capacity, policy)}
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// GetID resolves name+type to an upstream id, consulting the cache first.
// On a cold miss it searches upstream and accepts only a result whose
// label fuzzy-equals name; otherwise it fails with a user error (spec.md
// §4.5).
func (r *Resolver) GetID(ctx context.Context, name schedule.Name, t schedule.Type) (int64, error) {
	key := cacheKey{name: name.String(), t: t}
	if id, ok := r.cache.Get(key); ok {
		return id, nil
	}

	results, err := r.api.Search(ctx, name.String(), t)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 || !fuzzyEquals(results[0].Label, name.String()) {
		return 0, apperrors.NewUser(fmt.Sprintf("schedule with type %q and name %q not found", t, name))
	}

	id := results[0].ID
	r.cache.Insert(key, id)
	return id, nil
}

// fuzzyEquals compares a and b after collapsing runs of whitespace and
// lowercasing (spec.md GLOSSARY: "Fuzzy equality").
func fuzzyEquals(a, b string) bool {
	clean := func(s string) string {
		return strings.ToLower(multiSpace.ReplaceAllString(s, " "))
	}
	return clean(a) == clean(b)
}
